// Package image validates boot images found on local media or fetched over
// the network. Images are ELF executables for the PowerPC cores, optionally
// gzip compressed. Executing an image is left to a [Launcher].
package image

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Candidates are the file names looked up on every boot source, in order.
var Candidates = []string{"xenon.elf", "xenon.z", "vmlinux"}

// MaxSize limits the size of an image after decompression.
const MaxSize = 64 << 20

var (
	ErrNoImage     = errors.New("no bootable image found")
	ErrNotBootable = errors.New("not a bootable image")
	ErrTooLarge    = errors.New("image too large")
)

// Segment is a loadable part of an image.
type Segment struct {
	Paddr uint64
	Data  []byte // len(Data) is the memory size, the tail is zeroed
}

type Image struct {
	Name     string
	Entry    uint64
	Segments []Segment
}

// Launcher transfers control to an image. On the console Launch doesn't
// return if the image could be started.
type Launcher interface {
	Launch(img *Image) error
}

// Parse decompresses data if necessary and loads its ELF segments.
func Parse(name string, data []byte) (*Image, error) {
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		var err error
		if data, err = inflate(data); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", name, ErrNotBootable, err)
	}
	defer f.Close()

	if f.Data != elf.ELFDATA2MSB || (f.Machine != elf.EM_PPC64 && f.Machine != elf.EM_PPC) {
		return nil, fmt.Errorf("%s: %w: %v %v", name, ErrNotBootable, f.Machine, f.Data)
	}

	var total uint64
	for idx, prg := range f.Progs {
		if prg.Type != elf.PT_LOAD {
			continue
		}
		if prg.Filesz > prg.Memsz {
			return nil, fmt.Errorf("%s: segment %d: %w", name, idx, ErrNotBootable)
		}
		total += prg.Memsz
		if prg.Memsz > MaxSize || total > MaxSize {
			return nil, fmt.Errorf("%s: %w", name, ErrTooLarge)
		}
	}

	img := &Image{Name: name, Entry: f.Entry}
	for idx, prg := range f.Progs {
		if prg.Type != elf.PT_LOAD {
			continue
		}
		b := make([]byte, prg.Memsz)
		if _, err := io.ReadFull(prg.Open(), b[:prg.Filesz]); err != nil {
			return nil, fmt.Errorf("%s: segment %d: %w", name, idx, err)
		}
		img.Segments = append(img.Segments, Segment{Paddr: prg.Paddr, Data: b})
	}
	if len(img.Segments) == 0 {
		return nil, fmt.Errorf("%s: %w: no loadable segments", name, ErrNotBootable)
	}
	return img, nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > MaxSize {
		return nil, ErrTooLarge
	}
	return out, nil
}
