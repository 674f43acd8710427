// Package validation scores generated units against objective visual
// quality metrics. Scoring is pure: no oracle calls, no mutation of the
// unit under test.
package validation

import (
	"github.com/jonathan/deck-pipeline/internal/pacing"
	"github.com/jonathan/deck-pipeline/internal/types"
)

// Penalty points per issue category.
const (
	penaltyContrast   = 15
	penaltyDensity    = 10
	penaltyWhitespace = 8
	penaltySafeZone   = 5
	penaltyScale      = 5
	penaltyNoTitle    = 10
	penaltyManyTitles = 5
	penaltyBalance    = 5
)

const msgNoTitle = "unit has no title element"

// Score evaluates one unit against the design system and its pacing
// budget. opening marks the deck's first unit, which is allowed to carry
// no title. The result starts at 100 and subtracts a penalty per issue,
// floored at 0; valid means no critical issue was found.
func Score(unit *types.Unit, ds *types.DesignSystem, pac pacing.Directive, opening bool) types.ValidationResult {
	var issues []types.Issue

	issues = append(issues, checkContrast(unit, ds)...)
	issues = append(issues, checkDensity(unit, pac)...)
	issues = append(issues, checkWhitespace(unit, pac)...)
	issues = append(issues, checkSafeZone(unit)...)
	issues = append(issues, checkScaleContrast(unit, pac)...)
	issues = append(issues, checkHierarchy(unit, opening)...)
	issues = append(issues, checkBalance(unit)...)

	score := 100.0
	valid := true
	for _, is := range issues {
		score -= penaltyFor(is)
		if is.Severity == types.SeverityCritical {
			valid = false
		}
	}
	if score < 0 {
		score = 0
	}

	return types.ValidationResult{Valid: valid, Score: score, Issues: issues}
}

func penaltyFor(is types.Issue) float64 {
	switch is.Category {
	case types.IssueContrast:
		return penaltyContrast
	case types.IssueDensity:
		return penaltyDensity
	case types.IssueWhitespace:
		return penaltyWhitespace
	case types.IssueSafeZone:
		return penaltySafeZone
	case types.IssueScale:
		return penaltyScale
	case types.IssueHierarchy:
		// A crowded title stack is the softer finding (-5).
		if is.Message == msgNoTitle {
			return penaltyNoTitle
		}
		return penaltyManyTitles
	case types.IssueBalance:
		return penaltyBalance
	}
	return 0
}
