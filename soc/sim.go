package soc

import "sync"

// Access is a single store observed by a [Sim].
type Access struct {
	Addr  Addr
	Value uint64
	Width int // in bits
}

// Sim is a simulated register file. Loads of registers that were never stored
// return zero. Every store is appended to a journal, which makes the order of
// register writes during bring-up observable.
type Sim struct {
	mu      sync.Mutex
	regs    map[Addr]uint64
	journal []Access

	// OnStore is called after every store if set, while no lock is held.
	OnStore func(Access)
}

func NewSim() *Sim {
	return &Sim{regs: make(map[Addr]uint64)}
}

func (s *Sim) Load32(addr Addr) uint32 { return uint32(s.load(addr)) }
func (s *Sim) Load64(addr Addr) uint64 { return s.load(addr) }

func (s *Sim) Store32(addr Addr, v uint32) { s.store(Access{addr, uint64(v), 32}) }
func (s *Sim) Store64(addr Addr, v uint64) { s.store(Access{addr, v, 64}) }

func (s *Sim) load(addr Addr) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[addr]
}

func (s *Sim) store(a Access) {
	s.mu.Lock()
	if s.regs == nil {
		s.regs = make(map[Addr]uint64)
	}
	s.regs[a.Addr] = a.Value
	s.journal = append(s.journal, a)
	hook := s.OnStore
	s.mu.Unlock()

	if hook != nil {
		hook(a)
	}
}

// Journal returns a copy of all stores in the order they happened.
func (s *Sim) Journal() []Access {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Access(nil), s.journal...)
}

// SimSPRs is the special purpose register file of one simulated hardware
// thread. The time base does not advance on its own.
type SimSPRs struct {
	mu  sync.Mutex
	tb  uint64
	pvr uint64
}

// NewSimSPRs returns a register file with the given time base and processor
// version.
func NewSimSPRs(tb uint64, pvr uint32) *SimSPRs {
	return &SimSPRs{tb: tb, pvr: uint64(pvr)}
}

func (f *SimSPRs) MoveFromSPR(spr SPR) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch spr {
	case TBL:
		return f.tb & 0xffff_ffff
	case TBU:
		return f.tb >> 32
	case PVR:
		return f.pvr
	}
	return 0
}

func (f *SimSPRs) MoveToSPR(spr SPR, v uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch spr {
	case TBLW:
		f.tb = f.tb&^0xffff_ffff | v&0xffff_ffff
	case TBUW:
		f.tb = f.tb&0xffff_ffff | (v&0xffff_ffff)<<32
	}
}
