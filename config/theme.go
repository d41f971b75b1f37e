package config

import "fmt"

// Theme selects the console color scheme.
type Theme int

const (
	ThemeDefault Theme = iota
	ThemeHexaMods
	ThemeClassic
	ThemeContrast
)

var themeNames = [...]string{
	ThemeDefault:  "default",
	ThemeHexaMods: "hexamods",
	ThemeClassic:  "classic",
	ThemeContrast: "contrast",
}

func (t Theme) String() string {
	if t < 0 || int(t) >= len(themeNames) {
		return fmt.Sprintf("Theme(%d)", int(t))
	}
	return themeNames[t]
}

// Set implements flag.Value.
func (t *Theme) Set(s string) error {
	for i, name := range themeNames {
		if name == s {
			*t = Theme(i)
			return nil
		}
	}
	return fmt.Errorf("unknown theme %q", s)
}
