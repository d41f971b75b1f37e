// Package console prints bring-up progress on the video console. Output is
// colored by role (base text, accents for progress lines, values such as
// fuses) according to the configured theme.
package console

import (
	"fmt"
	"image/color"
	"io"

	"github.com/xenon-boot/xell/config"
)

// Display is the renderer behind the console.
type Display interface {
	io.Writer
	SetColors(bg, fg color.Color)
	ClearLine()
}

// Role selects the foreground color of subsequent output.
type Role int

const (
	Base Role = iota
	Accent
	Value
)

var spinner = [...]byte{'|', '/', '-', '\\'}

type Console struct {
	d       Display
	palette Palette
	spin    int
}

// New returns a Console drawing on d in theme's colors. The base role is
// selected initially.
func New(d Display, theme config.Theme) *Console {
	c := &Console{d: d, palette: PaletteFor(theme)}
	c.Use(Base)
	return c
}

func (c *Console) Write(p []byte) (n int, err error) {
	return c.d.Write(p)
}

// Use switches the foreground color to the one of role.
func (c *Console) Use(role Role) {
	fg := c.palette.Base
	switch role {
	case Accent:
		fg = c.palette.Accent
	case Value:
		fg = c.palette.Value
	}
	c.d.SetColors(c.palette.Background, fg)
}

// Printf prints in the current color.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.d, format, a...)
}

// Status prints a progress line like " * usb init".
func (c *Console) Status(format string, a ...any) {
	c.Use(Accent)
	fmt.Fprintf(c.d, " * "+format+"\n", a...)
	c.Use(Base)
}

// Warn prints each line as a warning like " ! nand init failure".
func (c *Console) Warn(lines ...string) {
	c.Use(Accent)
	for _, l := range lines {
		io.WriteString(c.d, " ! "+l+"\n")
	}
	c.Use(Base)
}

// ClearLine clears the status line.
func (c *Console) ClearLine() { c.d.ClearLine() }

// Spin advances the spinner on the status line.
func (c *Console) Spin() {
	c.d.Write(spinner[c.spin : c.spin+1])
	c.spin = (c.spin + 1) % len(spinner)
}

// Banner prints the branding header and the logo.
func (c *Console) Banner(version string) {
	c.Use(Accent)
	fmt.Fprintf(c.d, "\nXeLL RELOADED - Second Stage %s\n", version)
	c.Use(Base)
	io.WriteString(c.d, "Xenon Linux Loader\n\n")
	io.WriteString(c.d, logo)
}

const logo = `
 __  __     _      _
 \ \/ /___ | |    | |
  \  // _ \| |    | |
  /  \  __/| |___ | |___
 /_/\_\___||_____||_____|

`
