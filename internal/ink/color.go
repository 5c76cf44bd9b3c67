package ink

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Named colours offered by the tray menu, the hotkeys and the config file.
var (
	Red    = color.NRGBA{R: 255, A: 255}
	Blue   = color.NRGBA{B: 255, A: 255}
	Green  = color.NRGBA{G: 255, A: 255}
	Yellow = color.NRGBA{R: 255, G: 255, A: 255}
	Black  = color.NRGBA{A: 255}
	White  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Orange = color.NRGBA{R: 255, G: 128, A: 255}
	Purple = color.NRGBA{R: 128, B: 128, A: 255}
)

// PaletteEntry is a named colour.
type PaletteEntry struct {
	Name  string
	Color color.NRGBA
}

// DefaultPalette is the palette in menu order.
var DefaultPalette = []PaletteEntry{
	{"red", Red},
	{"blue", Blue},
	{"green", Green},
	{"yellow", Yellow},
	{"black", Black},
	{"white", White},
	{"orange", Orange},
	{"purple", Purple},
}

// DefaultWidths are the stroke widths offered in menus, in points.
var DefaultWidths = []float64{1, 2, 3, 5, 8, 12, 16, 20}

// ParseColor accepts a palette name or a hex colour in the form #rgb, #rrggbb
// or #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range DefaultPalette {
		if e.Name == s {
			return e.Color, nil
		}
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// ColorName returns the palette name of c, or its hex form.
func ColorName(c color.NRGBA) string {
	for _, e := range DefaultPalette {
		if e.Color == c {
			return e.Name
		}
	}
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
