// Package soc describes the register boundary of the Xenon system-on-chip as
// far as the second stage needs it: a handful of physical addresses that are
// written with fixed values during bring-up and the per-thread special purpose
// registers that hold the time base.
//
// All register traffic goes through a [Bus], so bring-up can be run against
// the simulated register file in [Sim] instead of real hardware.
package soc

// Addr represents a physical address on the SoC bus.
type Addr uint64

// Bus reads and writes naturally aligned registers at physical addresses.
type Bus interface {
	Load32(addr Addr) uint32
	Store32(addr Addr, v uint32)
	Load64(addr Addr) uint64
	Store64(addr Addr, v uint64)
}

// Time base control register. The counter shared by all hardware threads is
// halted while it holds TimebaseStop.
const (
	TimebaseControl Addr = 0x2006_11a0

	TimebaseStop uint64 = 0x0
	TimebaseRun  uint64 = 0x1ff
)

// Interrupt controller registers touched before the SMC is used.
const (
	irqPreinit0 Addr = 0xea00_106c
	irqPreinit1 Addr = 0xea00_1064
	irqPreinit2 Addr = 0xea00_105c
)

// PreinitInterrupts programs the interrupt controller so SMC interrupts can
// be delivered. It must run after the time bases are synchronized and before
// video or console init.
func PreinitInterrupts(bus Bus) {
	bus.Store32(irqPreinit0, 0x0100_0000)
	bus.Store32(irqPreinit1, 0x0000_0010)
	bus.Store32(irqPreinit2, 0x0c00_0000)
}
