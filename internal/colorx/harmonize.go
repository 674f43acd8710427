package colorx

import "github.com/jonathan/deck-pipeline/internal/types"

// Contrast thresholds the harmonized palette must satisfy against the
// background, per WCAG AA.
const (
	TextContrastMin   = 4.5
	AccentContrastMin = 3.0
)

// harmonizeMaxIterations caps the nudge loop. For backgrounds near pure
// black or white the thresholds may be unreachable; the loop then stops at
// its best effort rather than spinning.
const harmonizeMaxIterations = 24

// harmonizeStep is the lightness nudge applied per iteration.
const harmonizeStep = 0.04

// Harmonize adjusts the palette's text and accent colors until both meet
// their contrast thresholds against the background, nudging lightness away
// from the background's side of the range. Only text and accent are
// touched; every other field passes through unchanged.
func Harmonize(ds *types.DesignSystem) {
	bg := ds.Colors.Background
	ds.Colors.Text = pushContrast(ds.Colors.Text, bg, TextContrastMin)
	ds.Colors.Accent = pushContrast(ds.Colors.Accent, bg, AccentContrastMin)
}

// pushContrast nudges fg's lightness away from bg until the ratio holds or
// the iteration cap is reached, returning the best candidate found.
func pushContrast(fg, bg string, min float64) string {
	step := harmonizeStep
	if Lightness(bg) > 0.5 {
		step = -harmonizeStep
	}

	best := fg
	bestRatio := ContrastRatio(fg, bg)
	current := fg
	for i := 0; i < harmonizeMaxIterations && bestRatio < min; i++ {
		current = AdjustLightness(current, step)
		if r := ContrastRatio(current, bg); r > bestRatio {
			best = current
			bestRatio = r
		}
	}
	return best
}
