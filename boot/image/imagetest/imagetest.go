// Package imagetest builds minimal boot images for tests.
package imagetest

import (
	"bytes"
	"debug/elf"
	"encoding/binary"

	"github.com/klauspost/compress/gzip"

	"github.com/xenon-boot/xell/boot/image"
)

const (
	ehsize    = 64
	phentsize = 56
)

// Segment describes a loadable segment. Memsz defaults to len(Data).
type Segment struct {
	Paddr uint64
	Data  []byte
	Memsz uint64
}

// ELF returns a big endian ELF64 executable for machine with a single
// loadable segment holding payload at paddr, followed by 16 bytes of bss.
func ELF(machine elf.Machine, entry, paddr uint64, payload []byte) []byte {
	return ELFSegments(machine, entry, Segment{Paddr: paddr, Data: payload, Memsz: uint64(len(payload)) + 16})
}

// ELFSegments returns a big endian ELF64 executable with one PT_LOAD program
// header per segment.
func ELFSegments(machine elf.Machine, entry uint64, segs ...Segment) []byte {
	hdr := elf.Header64{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(machine),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     entry,
		Phoff:     ehsize,
		Ehsize:    ehsize,
		Phentsize: phentsize,
		Phnum:     uint16(len(segs)),
		Shentsize: 64,
	}
	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2MSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, &hdr)

	off := uint64(ehsize + phentsize*len(segs))
	for _, seg := range segs {
		memsz := seg.Memsz
		if memsz == 0 {
			memsz = uint64(len(seg.Data))
		}
		prog := elf.Prog64{
			Type:   uint32(elf.PT_LOAD),
			Flags:  uint32(elf.PF_R | elf.PF_X),
			Off:    off,
			Vaddr:  seg.Paddr,
			Paddr:  seg.Paddr,
			Filesz: uint64(len(seg.Data)),
			Memsz:  memsz,
			Align:  16,
		}
		binary.Write(&buf, binary.BigEndian, &prog)
		off += uint64(len(seg.Data))
	}
	for _, seg := range segs {
		buf.Write(seg.Data)
	}
	return buf.Bytes()
}

// Gzip compresses data.
func Gzip(data []byte) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write(data)
	zw.Close()
	return buf.Bytes()
}

// Launcher records images instead of executing them. Launch returns Err.
type Launcher struct {
	Launched []*image.Image
	Err      error
}

func (l *Launcher) Launch(img *image.Image) error {
	l.Launched = append(l.Launched, img)
	return l.Err
}
