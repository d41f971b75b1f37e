package thread_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/xenon-boot/xell/soc"
	"github.com/xenon-boot/xell/soc/thread"
)

type stuck struct{}

func (stuck) Run(thread.ID, uintptr, thread.Task) {}
func (stuck) Running(thread.ID) bool              { return true }

func TestJoinDeadline(t *testing.T) {
	err := thread.Join(stuck{}, 3, 10*time.Millisecond)
	if !errors.Is(err, thread.ErrJoinTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestJoinWaitsForTask(t *testing.T) {
	var stacks thread.Stacks
	sim := thread.NewSim(0)

	release := make(chan struct{})
	var done atomic.Bool
	sim.Run(2, stacks[2].Top(), func(soc.SPRFile) {
		<-release
		done.Store(true)
	})
	if !sim.Running(2) {
		t.Fatal("thread 2 should be running")
	}
	close(release)

	if err := thread.Join(sim, 2, 0); err != nil {
		t.Fatal(err)
	}
	if !done.Load() {
		t.Error("join returned before the task finished")
	}
}

func TestStackTop(t *testing.T) {
	var stacks thread.Stacks
	for i := range stacks {
		top := stacks[i].Top()
		lo := uintptr(unsafe.Pointer(&stacks[i][0]))
		if top <= lo || top >= lo+thread.StackSize {
			t.Errorf("stack %d: top %#x outside [%#x, %#x)", i, top, lo, lo+thread.StackSize)
		}
	}
}

func TestSimRejectsThreadZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("launching on thread 0 should panic")
		}
	}()
	var stack thread.Stack
	thread.NewSim(0).Run(0, stack.Top(), func(soc.SPRFile) {})
}
