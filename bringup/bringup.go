// Package bringup initializes the console hardware in a fixed order of
// stages. Each stage either completes, completes in a degraded mode with some
// features unavailable, or aborts the whole bring-up. Nothing is retried and
// nothing is undone.
package bringup

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/xenon-boot/xell/boot/media"
	"github.com/xenon-boot/xell/bootcfg"
	"github.com/xenon-boot/xell/config"
	"github.com/xenon-boot/xell/console"
)

// Policy is what happens when a stage fails.
type Policy int

const (
	// BestEffort stages are logged and otherwise ignored.
	BestEffort Policy = iota
	// Degrade stages print their warning, pause for Sequencer.Delay and
	// leave their features unavailable.
	Degrade
	// Abort stages end the bring-up.
	Abort
)

func (p Policy) String() string {
	switch p {
	case BestEffort:
		return "best-effort"
	case Degrade:
		return "degrade"
	case Abort:
		return "abort"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Stage is a single bring-up step.
type Stage struct {
	Name string
	// Applies reports whether the stage runs at all. Nil means always.
	Applies func(s *State) bool
	Action  func(s *State) error
	Policy  Policy
	// Warning is printed for a failed Degrade stage.
	Warning []string
}

// State is the outcome of bring-up, handed on to the boot loop.
type State struct {
	Config   config.Config
	Revision Revision

	// Console is nil until the console stage completed.
	Console *console.Console

	// BootConfig is the zero Record if it could not be loaded.
	BootConfig bootcfg.Record

	// Devices are the volumes mounted at the end of bring-up.
	Devices media.DeviceList

	Skipped  []string
	Degraded []string
}

// ErrNotInitialized is returned by stages whose driver reported it is not
// usable.
var ErrNotInitialized = errors.New("not initialized")

type Sequencer struct {
	Stages []Stage

	// Delay is the pause after a degraded stage.
	Delay time.Duration
	Sleep func(time.Duration)
}

// New returns a sequencer running the default stages on p.
func New(p *Platform) *Sequencer {
	return &Sequencer{
		Stages: Stages(p),
		Delay:  5 * time.Second,
		Sleep:  time.Sleep,
	}
}

// Run runs all stages in order. An error is returned only if an Abort stage
// failed, the state is valid in any case.
func (seq *Sequencer) Run(cfg config.Config) (*State, error) {
	s := &State{Config: cfg}
	for _, st := range seq.Stages {
		if st.Applies != nil && !st.Applies(s) {
			glog.V(1).Infof("stage %s: skipped", st.Name)
			s.Skipped = append(s.Skipped, st.Name)
			continue
		}

		glog.V(1).Infof("stage %s", st.Name)
		err := st.Action(s)
		if err == nil {
			continue
		}

		switch st.Policy {
		case Abort:
			return s, fmt.Errorf("%s: %w", st.Name, err)
		case Degrade:
			glog.Warningf("stage %s: %v, continuing without it", st.Name, err)
			if s.Console != nil {
				s.Console.Warn(st.Warning...)
			}
			s.Degraded = append(s.Degraded, st.Name)
			if seq.Sleep != nil {
				seq.Sleep(seq.Delay)
			}
		default:
			glog.Warningf("stage %s: %v", st.Name, err)
		}
	}
	return s, nil
}

// IsDegraded reports whether the named stage failed in degraded mode.
func (s *State) IsDegraded(name string) bool {
	for _, n := range s.Degraded {
		if n == name {
			return true
		}
	}
	return false
}

func early(p *Platform) io.Writer {
	if p.Early == nil {
		return io.Discard
	}
	return p.Early
}
