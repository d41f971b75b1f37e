package console

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/xenon-boot/xell/config"
)

// Palette assigns colors to the output roles.
type Palette struct {
	Background color.RGBA
	Base       color.RGBA
	Accent     color.RGBA
	Value      color.RGBA
}

var palettes = [...]Palette{
	config.ThemeDefault: {
		Background: colornames.Black,
		Base:       colornames.White,
		Accent:     colornames.Lightgray,
		Value:      colornames.White,
	},
	// orange headings, green keys and fuses
	config.ThemeHexaMods: {
		Background: colornames.Black,
		Base:       colornames.White,
		Accent:     colornames.Orange,
		Value:      colornames.Green,
	},
	config.ThemeClassic: {
		Background: colornames.Midnightblue,
		Base:       colornames.White,
		Accent:     colornames.Gold,
		Value:      colornames.Lightgreen,
	},
	config.ThemeContrast: {
		Background: colornames.Black,
		Base:       colornames.White,
		Accent:     colornames.Yellow,
		Value:      colornames.Cyan,
	},
}

// PaletteFor returns the palette of theme. Unknown themes get the default
// palette.
func PaletteFor(theme config.Theme) Palette {
	if theme < 0 || int(theme) >= len(palettes) {
		return palettes[config.ThemeDefault]
	}
	return palettes[theme]
}
