package console

import (
	"fmt"
	"image/color"
	"io"
)

// ANSI is a Display for terminals understanding 24-bit SGR color sequences,
// e.g. a serial console attached to a host.
type ANSI struct {
	w io.Writer
}

func NewANSI(w io.Writer) *ANSI { return &ANSI{w: w} }

func (a *ANSI) Write(p []byte) (int, error) { return a.w.Write(p) }

func (a *ANSI) SetColors(bg, fg color.Color) {
	f := color.RGBAModel.Convert(fg).(color.RGBA)
	b := color.RGBAModel.Convert(bg).(color.RGBA)
	fmt.Fprintf(a.w, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm", f.R, f.G, f.B, b.R, b.G, b.B)
}

func (a *ANSI) ClearLine() {
	io.WriteString(a.w, "\r\x1b[2K")
}
