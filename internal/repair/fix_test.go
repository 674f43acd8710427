package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/deck-pipeline/internal/colorx"
	"github.com/jonathan/deck-pipeline/internal/pacing"
	"github.com/jonathan/deck-pipeline/internal/types"
	"github.com/jonathan/deck-pipeline/internal/validation"
)

func testSystem() *types.DesignSystem {
	return &types.DesignSystem{
		Colors: types.ColorPalette{
			Background: "#14141e",
			Text:       "#f2f2f5",
		},
	}
}

func TestFixContrast(t *testing.T) {
	unit := &types.Unit{
		ID:         "u1",
		Background: "#14141e",
		Elements: []types.Element{
			{ID: "bad", Type: types.ElementText, Role: types.RoleBody, X: 100, Y: 100, Width: 400, Height: 80, FontSize: 22, Color: "#2a2a33"},
			{ID: "good", Type: types.ElementText, Role: types.RoleBody, X: 100, Y: 300, Width: 400, Height: 80, FontSize: 22, Color: "#f2f2f5"},
		},
	}
	issues := []types.Issue{{
		Severity: types.SeverityCritical, Category: types.IssueContrast,
		ElementID: "bad", AutoFixable: true,
	}}

	fixed := Fix(unit, testSystem(), issues)

	assert.GreaterOrEqual(t, colorx.ContrastRatio(fixed.Elements[0].Color, "#14141e"), colorx.TextContrastMin)
	assert.Equal(t, "#f2f2f5", fixed.Elements[1].Color, "unnamed elements are never touched")
	assert.Equal(t, "#2a2a33", unit.Elements[0].Color, "input unit is not mutated")
}

func TestFixSafeZone(t *testing.T) {
	tests := []struct {
		name         string
		x, y, w, h   float64
		wantX, wantY float64
	}{
		{name: "Pulled off the left edge", x: 5, y: 200, w: 300, h: 80, wantX: 48, wantY: 200},
		{name: "Pulled off the top edge", x: 200, y: 3, w: 300, h: 80, wantX: 200, wantY: 48},
		{name: "Pulled back from the right", x: 1100, y: 200, w: 300, h: 80, wantX: 932, wantY: 200},
		{name: "Pulled back from the bottom", x: 200, y: 650, w: 300, h: 80, wantX: 200, wantY: 592},
		{name: "Oversized element pinned to margin", x: 300, y: 200, w: 1250, h: 80, wantX: 48, wantY: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := &types.Unit{
				ID: "u1",
				Elements: []types.Element{
					{ID: "t", Type: types.ElementText, Role: types.RoleBody, X: tt.x, Y: tt.y, Width: tt.w, Height: tt.h, FontSize: 22},
				},
			}
			issues := []types.Issue{{
				Severity: types.SeverityWarning, Category: types.IssueSafeZone,
				ElementID: "t", AutoFixable: true,
			}}

			fixed := Fix(unit, testSystem(), issues)
			assert.Equal(t, tt.wantX, fixed.Elements[0].X)
			assert.Equal(t, tt.wantY, fixed.Elements[0].Y)
		})
	}
}

func TestFixIgnoresUnfixableAndUnknown(t *testing.T) {
	unit := &types.Unit{
		ID: "u1",
		Elements: []types.Element{
			{ID: "a", Type: types.ElementText, Role: types.RoleBody, X: 5, Y: 5, Width: 100, Height: 40, FontSize: 22, Color: "#111111"},
		},
	}
	issues := []types.Issue{
		{Category: types.IssueSafeZone, ElementID: "a", AutoFixable: false},
		{Category: types.IssueContrast, ElementID: "ghost", AutoFixable: true},
		{Category: types.IssueDensity, AutoFixable: true},
	}

	fixed := Fix(unit, testSystem(), issues)
	assert.Equal(t, unit.Elements[0], fixed.Elements[0])
}

func TestFixIdempotent(t *testing.T) {
	unit := &types.Unit{
		ID:         "u1",
		Background: "#14141e",
		Elements: []types.Element{
			{ID: "a", Type: types.ElementText, Role: types.RoleTitle, X: 10, Y: 100, Width: 500, Height: 90, FontSize: 56, Color: "#20202a", Text: "Title"},
			{ID: "b", Type: types.ElementText, Role: types.RoleBody, X: 100, Y: 640, Width: 500, Height: 60, FontSize: 22, Color: "#2a2a33", Text: "Body"},
		},
	}
	ds := testSystem()
	pac := pacing.For("goals")

	res := validation.Score(unit, ds, pac, false)
	require.NotEmpty(t, res.Fixable())

	once := Fix(unit, ds, res.Fixable())
	resAgain := validation.Score(once, ds, pac, false)
	twice := Fix(once, ds, resAgain.Fixable())

	assert.Equal(t, once, twice, "a second fix pass must change nothing")
}

func TestFixThenRescoreImproves(t *testing.T) {
	unit := &types.Unit{
		ID:         "u1",
		Background: "#14141e",
		Elements: []types.Element{
			{ID: "t", Type: types.ElementText, Role: types.RoleTitle, X: 80, Y: 80, Width: 520, Height: 80, FontSize: 56, Color: "#30303a", Text: "Title"},
			{ID: "b1", Type: types.ElementText, Role: types.RoleBody, X: 680, Y: 80, Width: 520, Height: 140, FontSize: 22, Text: "First"},
			{ID: "b2", Type: types.ElementText, Role: types.RoleBody, X: 80, Y: 420, Width: 520, Height: 140, FontSize: 22, Text: "Second"},
			{ID: "c", Type: types.ElementText, Role: types.RoleCaption, X: 680, Y: 480, Width: 520, Height: 80, FontSize: 18, Text: "Note"},
		},
	}
	ds := testSystem()
	pac := pacing.For("goals")

	before := validation.Score(unit, ds, pac, false)
	require.False(t, before.Valid)

	fixed := Fix(unit, ds, before.Fixable())
	after := validation.Score(fixed, ds, pac, false)

	assert.True(t, after.Valid)
	assert.Greater(t, after.Score, before.Score)
}
