//go:build xenon

package soc

import (
	"sync/atomic"
	"unsafe"
)

// The second stage runs with translation disabled, so physical addresses are
// used as they are.
type mmio struct{}

// Default is the bus of the running machine.
var Default Bus = mmio{}

func ptr32(addr Addr) *uint32 { return (*uint32)(unsafe.Pointer(uintptr(addr))) }
func ptr64(addr Addr) *uint64 { return (*uint64)(unsafe.Pointer(uintptr(addr))) }

func (mmio) Load32(addr Addr) uint32     { return atomic.LoadUint32(ptr32(addr)) }
func (mmio) Store32(addr Addr, v uint32) { atomic.StoreUint32(ptr32(addr), v) }
func (mmio) Load64(addr Addr) uint64     { return atomic.LoadUint64(ptr64(addr)) }
func (mmio) Store64(addr Addr, v uint64) { atomic.StoreUint64(ptr64(addr), v) }
