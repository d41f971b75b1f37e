package diag

import (
	"fmt"

	"github.com/xenon-boot/xell/debug"
)

// FuseLines is the number of fuse lines in a dump.
const FuseLines = 12

const fuseLineLen = len("fuseset 00: 0123456789abcdef\n")

// FuseDump is the text rendering of all fuse lines. It has a fixed capacity
// of FuseLines lines and never allocates.
type FuseDump struct {
	buf [FuseLines * fuseLineLen]byte
	n   int
}

// Render formats lines into d, replacing previous content.
func (d *FuseDump) Render(lines *[FuseLines]uint64) {
	b := d.buf[:0]
	for i, line := range lines {
		b = fmt.Appendf(b, "fuseset %02d: %08X%08X\n", i, uint32(line>>32), uint32(line))
	}
	debug.Assert(len(b) == len(d.buf) && &b[0] == &d.buf[0], "fuse dump overrun")
	d.n = len(b)
}

// Bytes returns the rendered text, FuseLines newline terminated lines.
func (d *FuseDump) Bytes() []byte { return d.buf[:d.n] }

func (d *FuseDump) String() string { return string(d.Bytes()) }
