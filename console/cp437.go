package console

import (
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// CP437 wraps the framebuffer console, whose font is laid out in code page
// 437. Text written to it is transcoded from UTF-8, runes without a glyph are
// replaced.
type CP437 struct {
	Display
	enc io.Writer
}

func NewCP437(d Display) *CP437 {
	encoder := encoding.ReplaceUnsupported(charmap.CodePage437.NewEncoder())
	return &CP437{Display: d, enc: transform.NewWriter(d, encoder)}
}

func (c *CP437) Write(p []byte) (int, error) { return c.enc.Write(p) }
