package quiz

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color keeps the authored hex string next to its parsed value so that
// plans written back to YAML show what the author typed.
type Color struct {
	Hex  string
	RGBA color.RGBA
}

var (
	DefaultAccent = Color{Hex: "#22c55e", RGBA: color.RGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 0xff}}
	DefaultText   = Color{Hex: "#ffffff", RGBA: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}
)

// ParseColor parses a #rgb or #rrggbb value, returning fallback when the
// value is empty or malformed.
func ParseColor(hex string, fallback Color) Color {
	if hex == "" {
		return fallback
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return Color{Hex: hex, RGBA: color.RGBA{R: r, G: g, B: b, A: 0xff}}
}

// WithAlpha returns the color with its alpha channel replaced.
func (c Color) WithAlpha(a float64) color.NRGBA {
	return color.NRGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: uint8(clamp01(a)*255 + 0.5)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
