package image_test

import (
	"bytes"
	"debug/elf"
	"errors"
	"testing"

	"github.com/xenon-boot/xell/boot/image"
	"github.com/xenon-boot/xell/boot/image/imagetest"
)

func TestParse(t *testing.T) {
	payload := []byte("\x7c\x08\x02\xa6 kernel text")
	raw := imagetest.ELF(elf.EM_PPC64, 0x8000_0000_0000_0100, 0x100, payload)

	for name, data := range map[string][]byte{
		"xenon.elf": raw,
		"xenon.z":   imagetest.Gzip(raw),
	} {
		img, err := image.Parse(name, data)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if img.Name != name || img.Entry != 0x8000_0000_0000_0100 {
			t.Errorf("%s: got %+v", name, img)
		}
		if len(img.Segments) != 1 {
			t.Fatalf("%s: %d segments", name, len(img.Segments))
		}
		seg := img.Segments[0]
		if seg.Paddr != 0x100 || len(seg.Data) != len(payload)+16 {
			t.Errorf("%s: segment at %#x with %d bytes", name, seg.Paddr, len(seg.Data))
		}
		if !bytes.Equal(seg.Data[:len(payload)], payload) {
			t.Errorf("%s: segment content %q", name, seg.Data)
		}
		if !bytes.Equal(seg.Data[len(payload):], make([]byte, 16)) {
			t.Errorf("%s: bss not zeroed", name)
		}
	}
}

func TestParseTextAndBSS(t *testing.T) {
	text := []byte("\x7c\x08\x02\xa6\x4e\x80")
	raw := imagetest.ELFSegments(elf.EM_PPC64, 0x100,
		imagetest.Segment{Paddr: 0x100, Data: text},
		imagetest.Segment{Paddr: 0x1000, Memsz: 0x100},
	)

	img, err := image.Parse("vmlinux", raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(img.Segments) != 2 {
		t.Fatalf("got %d segments", len(img.Segments))
	}
	if got := img.Segments[0].Data; !bytes.Equal(got, text) {
		t.Errorf("text segment %x, want %x", got, text)
	}
	bss := img.Segments[1]
	if bss.Paddr != 0x1000 || !bytes.Equal(bss.Data, make([]byte, 0x100)) {
		t.Errorf("bss segment at %#x with %d bytes", bss.Paddr, len(bss.Data))
	}
}

func TestParseTooLarge(t *testing.T) {
	segs := make([]imagetest.Segment, 8)
	for i := range segs {
		segs[i] = imagetest.Segment{Paddr: uint64(i) * image.MaxSize, Memsz: image.MaxSize}
	}
	if _, err := image.Parse("vmlinux", imagetest.ELFSegments(elf.EM_PPC64, 0, segs...)); !errors.Is(err, image.ErrTooLarge) {
		t.Errorf("eight maximum sized segments: got %v, want ErrTooLarge", err)
	}

	single := imagetest.Segment{Memsz: image.MaxSize + 1}
	if _, err := image.Parse("vmlinux", imagetest.ELFSegments(elf.EM_PPC64, 0, single)); !errors.Is(err, image.ErrTooLarge) {
		t.Errorf("oversized segment: got %v, want ErrTooLarge", err)
	}

	fits := []imagetest.Segment{
		{Paddr: 0, Data: []byte{1}, Memsz: image.MaxSize / 2},
		{Paddr: image.MaxSize / 2, Memsz: image.MaxSize / 2},
	}
	if _, err := image.Parse("vmlinux", imagetest.ELFSegments(elf.EM_PPC64, 0, fits...)); err != nil {
		t.Errorf("image of exactly MaxSize: %v", err)
	}
}

func TestParseRejects(t *testing.T) {
	tests := map[string][]byte{
		"garbage": []byte("not an elf at all"),
		"x86":     imagetest.ELF(elf.EM_X86_64, 0, 0, []byte{0x90}),
		"empty":   nil,
	}
	for name, data := range tests {
		if _, err := image.Parse(name, data); !errors.Is(err, image.ErrNotBootable) {
			t.Errorf("%s: got %v, want ErrNotBootable", name, err)
		}
	}

	if _, err := image.Parse("broken.z", []byte{0x1f, 0x8b, 0x00}); err == nil {
		t.Error("broken gzip stream accepted")
	}
}
