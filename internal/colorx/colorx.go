// Package colorx provides the color math shared by the design-system
// harmonizer, the quality scorer, and the auto-fixer: hex parsing, WCAG
// contrast ratios, and bounded lightness adjustment.
package colorx

import (
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseHex parses a "#rgb" or "#rrggbb" color. Invalid input falls back to
// the given default so that a malformed oracle color never aborts scoring.
func ParseHex(hex, fallback string) colorful.Color {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		c, err = colorful.Hex(fallback)
		if err != nil {
			return colorful.Color{} // black
		}
	}
	return c
}

// FirstStop returns the first color of a gradient stop list ("#a,#b"), or
// the input unchanged when it is a plain color.
func FirstStop(color string) string {
	if idx := strings.IndexByte(color, ','); idx >= 0 {
		return strings.TrimSpace(color[:idx])
	}
	return strings.TrimSpace(color)
}

// relativeLuminance implements the WCAG 2.x formula over linearized sRGB.
func relativeLuminance(c colorful.Color) float64 {
	lin := func(ch float64) float64 {
		if ch <= 0.03928 {
			return ch / 12.92
		}
		return math.Pow((ch+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio returns the WCAG contrast ratio between two hex colors,
// in the range [1, 21].
func ContrastRatio(fg, bg string) float64 {
	l1 := relativeLuminance(ParseHex(FirstStop(fg), "#000000"))
	l2 := relativeLuminance(ParseHex(FirstStop(bg), "#ffffff"))
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// Lightness returns the HSL lightness of a hex color in [0, 1].
func Lightness(hex string) float64 {
	_, _, l := ParseHex(FirstStop(hex), "#808080").Hsl()
	return l
}

// AdjustLightness returns hex shifted by delta in HSL lightness, clamped to
// the displayable range.
func AdjustLightness(hex string, delta float64) string {
	h, s, l := ParseHex(FirstStop(hex), "#808080").Hsl()
	l += delta
	if l < 0 {
		l = 0
	}
	if l > 1 {
		l = 1
	}
	return colorful.Hsl(h, s, l).Clamped().Hex()
}
