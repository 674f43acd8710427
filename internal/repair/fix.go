// Package repair applies narrow deterministic fixes to units for issues
// the scorer marked auto-fixable. Fixes never touch elements that were not
// named by an issue, and applying the same fixes twice is a no-op.
package repair

import (
	"github.com/jonathan/deck-pipeline/internal/colorx"
	"github.com/jonathan/deck-pipeline/internal/types"
)

// contrastFix tuning: lightness step per iteration and the iteration cap.
// The cap keeps pathological palettes (background at a lightness extreme)
// from looping; the best candidate found so far is kept.
const (
	contrastStep          = 0.05
	contrastMaxIterations = 16
)

// Fix returns a copy of the unit with every auto-fixable issue repaired.
// The input unit is not mutated. Issues without an element reference or
// without a known repair are ignored.
func Fix(unit *types.Unit, ds *types.DesignSystem, issues []types.Issue) *types.Unit {
	fixed := unit.Clone()
	for _, is := range issues {
		if !is.AutoFixable || is.ElementID == "" {
			continue
		}
		e := findElement(fixed, is.ElementID)
		if e == nil {
			continue
		}
		switch is.Category {
		case types.IssueContrast:
			fixContrast(e, ds)
		case types.IssueSafeZone:
			fixSafeZone(e)
		}
	}
	return fixed
}

func findElement(unit *types.Unit, id string) *types.Element {
	for i := range unit.Elements {
		if unit.Elements[i].ID == id {
			return &unit.Elements[i]
		}
	}
	return nil
}

// fixContrast nudges the element's text color lightness away from the
// background until the required ratio holds, bounded by the iteration cap.
func fixContrast(e *types.Element, ds *types.DesignSystem) {
	color := e.Color
	if color == "" {
		color = ds.Colors.Text
	}

	required := colorx.TextContrastMin
	if e.FontSize >= 48 {
		required = colorx.AccentContrastMin
	}
	if colorx.ContrastRatio(color, ds.Colors.Background) >= required {
		return
	}

	step := contrastStep
	if colorx.Lightness(ds.Colors.Background) > 0.5 {
		step = -contrastStep
	}

	best := color
	bestRatio := colorx.ContrastRatio(color, ds.Colors.Background)
	current := color
	for i := 0; i < contrastMaxIterations && bestRatio < required; i++ {
		current = colorx.AdjustLightness(current, step)
		if r := colorx.ContrastRatio(current, ds.Colors.Background); r > bestRatio {
			best = current
			bestRatio = r
		}
	}
	e.Color = best
}

// fixSafeZone clamps the element's origin so its box sits inside the safe
// area of the canvas.
func fixSafeZone(e *types.Element) {
	e.X = clamp(e.X, types.SafeMargin, types.CanvasWidth-types.SafeMargin-e.Width)
	e.Y = clamp(e.Y, types.SafeMargin, types.CanvasHeight-types.SafeMargin-e.Height)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		// Element larger than the safe area; pin to the margin.
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
