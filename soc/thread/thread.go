// Package thread starts short tasks on the secondary hardware threads of the
// SoC. There is no scheduler: a task is launched on an idle thread with its own
// stack, and completion can only be observed by polling.
package thread

import (
	"errors"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/xenon-boot/xell/soc"
)

// Count is the number of hardware threads. Thread 0 runs the boot flow.
const Count = 6

// ID identifies a hardware thread in [0, Count).
type ID int

const (
	// StackSize is the size of the stack owned by each thread.
	StackSize = 0x10000

	stackRedZone = 0x100
)

// Stack is the statically owned stack region of one hardware thread. It is
// sized for a minimal task and is never resized or freed.
type Stack [StackSize]byte

// Top returns the initial stack pointer for a task running on s.
func (s *Stack) Top() uintptr {
	return uintptr(unsafe.Pointer(&s[StackSize-stackRedZone]))
}

// Stacks holds one non-overlapping stack per hardware thread.
type Stacks [Count]Stack

// Task is executed on a hardware thread with access to that thread's special
// purpose registers.
type Task func(spr soc.SPRFile)

// Runner launches tasks on secondary hardware threads.
type Runner interface {
	// Run starts task on thread id using the stack pointer sp. It returns
	// immediately, the task might still be running.
	Run(id ID, sp uintptr, task Task)

	// Running reports whether thread id still executes a task.
	Running(id ID) bool
}

var ErrJoinTimeout = errors.New("join timed out")

// Join polls r until thread id finished its task. With a zero deadline it
// waits forever, which is what the boot flow expects. A positive deadline
// bounds the wait and returns ErrJoinTimeout when exceeded.
func Join(r Runner, id ID, deadline time.Duration) error {
	var start time.Time
	if deadline > 0 {
		start = time.Now()
	}
	for r.Running(id) {
		if deadline > 0 && time.Since(start) > deadline {
			return fmt.Errorf("thread %d: %w", id, ErrJoinTimeout)
		}
		runtime.Gosched()
	}
	return nil
}
