package soc

// SPR is the number of a special purpose register as used by mtspr/mfspr.
type SPR uint16

const (
	TBL  SPR = 268 // time base lower, read
	TBU  SPR = 269 // time base upper, read
	TBLW SPR = 284 // time base lower, write
	TBUW SPR = 285 // time base upper, write
	PVR  SPR = 287 // processor version
)

// SPRFile gives a task access to the special purpose registers of the
// hardware thread it is running on.
type SPRFile interface {
	MoveFromSPR(spr SPR) uint64
	MoveToSPR(spr SPR, v uint64)
}

// ResetTimebase zeroes the time base of the thread owning f. The lower half
// is written twice so a carry into the upper half between the first two
// writes is discarded.
func ResetTimebase(f SPRFile) {
	f.MoveToSPR(TBLW, 0)
	f.MoveToSPR(TBUW, 0)
	f.MoveToSPR(TBLW, 0)
}

// Timebase returns the 64-bit time base of the thread owning f.
func Timebase(f SPRFile) uint64 {
	for {
		hi := f.MoveFromSPR(TBU)
		lo := f.MoveFromSPR(TBL)
		if f.MoveFromSPR(TBU) == hi {
			return hi<<32 | lo&0xffff_ffff
		}
	}
}
