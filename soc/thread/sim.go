package thread

import (
	"fmt"
	"sync/atomic"

	"github.com/xenon-boot/xell/soc"
)

// Sim runs tasks of simulated hardware threads on goroutines.
type Sim struct {
	SPRs [Count]*soc.SimSPRs

	running [Count]atomic.Bool

	// OnDone is called on the task's goroutine after it returned and before
	// the thread reports not running.
	OnDone func(id ID)
}

// NewSim returns a simulator whose threads report the processor version pvr
// and start with distinct, non-zero time bases.
func NewSim(pvr uint32) *Sim {
	s := &Sim{}
	for i := range s.SPRs {
		s.SPRs[i] = soc.NewSimSPRs(uint64(i+1)<<28|0xabc, pvr)
	}
	return s
}

// Local returns the register file of thread 0.
func (s *Sim) Local() soc.SPRFile { return s.SPRs[0] }

func (s *Sim) Run(id ID, sp uintptr, task Task) {
	if id <= 0 || id >= Count {
		panic(fmt.Sprintf("thread: cannot launch on thread %d", id))
	}
	if sp == 0 {
		panic("thread: nil stack")
	}
	if s.running[id].Swap(true) {
		panic(fmt.Sprintf("thread: thread %d busy", id))
	}
	go func() {
		task(s.SPRs[id])
		if s.OnDone != nil {
			s.OnDone(id)
		}
		s.running[id].Store(false)
	}()
}

func (s *Sim) Running(id ID) bool {
	return s.running[id].Load()
}
