package validation

import (
	"fmt"

	"github.com/jonathan/deck-pipeline/internal/colorx"
	"github.com/jonathan/deck-pipeline/internal/pacing"
	"github.com/jonathan/deck-pipeline/internal/types"
)

// Font size at which WCAG allows the relaxed large-text ratio.
const largeTextSize = 48.0

// minVisibleOpacity is the opacity below which text is treated as a wash
// and exempt from contrast checks.
const minVisibleOpacity = 0.3

// checkContrast verifies every readable text element against the design
// system background. Large display text needs 3:1, everything else 4.5:1.
func checkContrast(unit *types.Unit, ds *types.DesignSystem) []types.Issue {
	var issues []types.Issue
	for _, e := range unit.TextElements() {
		if e.EffectiveOpacity() < minVisibleOpacity {
			continue
		}
		color := e.Color
		if color == "" {
			color = ds.Colors.Text
		}
		required := colorx.TextContrastMin
		if e.FontSize >= largeTextSize {
			required = colorx.AccentContrastMin
		}
		ratio := colorx.ContrastRatio(color, ds.Colors.Background)
		if ratio < required {
			issues = append(issues, types.Issue{
				Severity:    types.SeverityCritical,
				Category:    types.IssueContrast,
				Message:     fmt.Sprintf("text contrast %.2f below required %.1f", ratio, required),
				ElementID:   e.ID,
				AutoFixable: true,
			})
		}
	}
	return issues
}

// checkDensity flags units that exceed their pacing element budget.
func checkDensity(unit *types.Unit, pac pacing.Directive) []types.Issue {
	if pac.MaxElements > 0 && len(unit.Elements) > pac.MaxElements {
		return []types.Issue{{
			Severity: types.SeverityWarning,
			Category: types.IssueDensity,
			Message:  fmt.Sprintf("%d elements exceeds pacing budget of %d", len(unit.Elements), pac.MaxElements),
		}}
	}
	return nil
}

// checkWhitespace flags units whose uncovered canvas fraction falls under
// the pacing minimum.
func checkWhitespace(unit *types.Unit, pac pacing.Directive) []types.Issue {
	covered := 0.0
	for i := range unit.Elements {
		e := &unit.Elements[i]
		covered += e.Width * e.Height
	}
	whitespace := 1 - covered/(types.CanvasWidth*types.CanvasHeight)
	if whitespace < pac.MinWhitespace {
		return []types.Issue{{
			Severity: types.SeverityWarning,
			Category: types.IssueWhitespace,
			Message:  fmt.Sprintf("whitespace %.2f below pacing minimum %.2f", whitespace, pac.MinWhitespace),
		}}
	}
	return nil
}

// checkSafeZone flags readable text sitting inside the edge margin.
func checkSafeZone(unit *types.Unit) []types.Issue {
	var issues []types.Issue
	for _, e := range unit.TextElements() {
		if e.X < types.SafeMargin || e.Y < types.SafeMargin ||
			e.X+e.Width > types.CanvasWidth-types.SafeMargin ||
			e.Y+e.Height > types.CanvasHeight-types.SafeMargin {
			issues = append(issues, types.Issue{
				Severity:    types.SeverityWarning,
				Category:    types.IssueSafeZone,
				Message:     "text element inside edge safe zone",
				ElementID:   e.ID,
				AutoFixable: true,
			})
		}
	}
	return issues
}

// Scale-contrast thresholds: peak-energy units are expected to shout.
const (
	scaleRatioPeak    = 2.5
	scaleRatioDefault = 1.8
)

// checkScaleContrast flags flat typography: the ratio between the largest
// and smallest readable font sizes should exceed the energy threshold.
func checkScaleContrast(unit *types.Unit, pac pacing.Directive) []types.Issue {
	texts := unit.TextElements()
	if len(texts) < 2 {
		return nil
	}

	minSize, maxSize := 0.0, 0.0
	for _, e := range texts {
		if e.FontSize <= 0 {
			continue
		}
		if minSize == 0 || e.FontSize < minSize {
			minSize = e.FontSize
		}
		if e.FontSize > maxSize {
			maxSize = e.FontSize
		}
	}
	if minSize == 0 {
		return nil
	}

	threshold := scaleRatioDefault
	if pac.Energy == pacing.EnergyPeak {
		threshold = scaleRatioPeak
	}
	if maxSize/minSize < threshold {
		return []types.Issue{{
			Severity: types.SeveritySuggestion,
			Category: types.IssueScale,
			Message:  fmt.Sprintf("font scale ratio %.2f below %.1f", maxSize/minSize, threshold),
		}}
	}
	return nil
}

// checkHierarchy wants 1-2 title elements per unit; the opening unit may
// carry none (a pure visual hook).
func checkHierarchy(unit *types.Unit, opening bool) []types.Issue {
	titles := len(unit.ElementsByRole(types.RoleTitle))

	if titles == 0 && !opening {
		return []types.Issue{{
			Severity: types.SeverityWarning,
			Category: types.IssueHierarchy,
			Message:  msgNoTitle,
		}}
	}
	if titles > 2 {
		return []types.Issue{{
			Severity: types.SeverityWarning,
			Category: types.IssueHierarchy,
			Message:  fmt.Sprintf("%d title elements competing for attention", titles),
		}}
	}
	return nil
}
