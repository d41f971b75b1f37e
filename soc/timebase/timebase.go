// Package timebase brings the time bases of all hardware threads into a
// consistent state. Each thread latches its own copy of the shared counter, so
// the copies must be zeroed while the counter is halted.
package timebase

import (
	"time"

	"github.com/xenon-boot/xell/soc"
	"github.com/xenon-boot/xell/soc/thread"
)

// Synchronizer owns the stacks used by the reset task on the secondary
// threads.
type Synchronizer struct {
	bus     soc.Bus
	threads thread.Runner
	local   soc.SPRFile

	// JoinDeadline bounds the wait for each secondary thread. Zero waits
	// forever.
	JoinDeadline time.Duration

	stacks *thread.Stacks
}

// New returns a Synchronizer writing the time base control register through
// bus, launching resets via threads and resetting the calling thread through
// local.
func New(bus soc.Bus, threads thread.Runner, local soc.SPRFile) *Synchronizer {
	return &Synchronizer{
		bus:     bus,
		threads: threads,
		local:   local,
		stacks:  new(thread.Stacks),
	}
}

// Synchronize halts the shared counter, resets the time base of threads 1 to
// 5 one after another, resets the calling thread and restarts the counter.
//
// Threads are never reset concurrently. With a JoinDeadline set, a thread
// that doesn't finish in time aborts the remaining secondary resets and the
// error is returned after the counter was restarted.
func (s *Synchronizer) Synchronize() (err error) {
	s.bus.Store64(soc.TimebaseControl, soc.TimebaseStop)

	for id := thread.ID(1); id < thread.Count; id++ {
		s.threads.Run(id, s.stacks[id].Top(), soc.ResetTimebase)
		if err = thread.Join(s.threads, id, s.JoinDeadline); err != nil {
			break
		}
	}

	soc.ResetTimebase(s.local)

	s.bus.Store64(soc.TimebaseControl, soc.TimebaseRun)
	return err
}
