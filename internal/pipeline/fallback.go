package pipeline

import (
	"fmt"
	"strings"

	"github.com/jonathan/deck-pipeline/internal/colorx"
	"github.com/jonathan/deck-pipeline/internal/types"
)

// layoutTechniques is the static technique vocabulary, also used as the
// stage-3 fallback rotation.
var layoutTechniques = []string{
	"hero-center",
	"split-horizontal",
	"asymmetric-grid",
	"full-bleed",
	"editorial-columns",
	"diagonal-flow",
	"card-stack",
	"big-number",
}

// fallbackDirection is the static stage-1 fallback: plain but coherent.
func fallbackDirection(brief *types.ContentBrief) *types.CreativeDirection {
	n := len(brief.Sections)
	arc := make([]types.Temperature, n)
	for i := range arc {
		switch {
		case i == 0:
			arc[i] = types.TemperatureCold
		case i == n-1:
			arc[i] = types.TemperatureWarm
		default:
			arc[i] = types.TemperatureNeutral
		}
	}

	return &types.CreativeDirection{
		VisualMetaphor:  "clear signal",
		Tension:         "restraint against ambition",
		OneRule:         "one idea per unit",
		ColorStory:      "dark field, single accent",
		Motif:           "thin horizontal rule",
		TypographyVoice: "confident and quiet",
		EmotionalArc:    "steady build to a direct close",
		TemperatureArc:  arc,
	}
}

// fallbackDesignSystem derives a deterministic palette from the brief's
// base colors, then harmonizes it like any oracle-produced system.
func fallbackDesignSystem(brief *types.ContentBrief) *types.DesignSystem {
	primary := "#4f6df5"
	accent := "#e8604c"
	if len(brief.BasePalette) > 0 {
		primary = brief.BasePalette[0]
	}
	if len(brief.BasePalette) > 1 {
		accent = brief.BasePalette[1]
	}

	ds := &types.DesignSystem{
		Colors: types.ColorPalette{
			Primary:    primary,
			Secondary:  colorx.AdjustLightness(primary, -0.15),
			Accent:     accent,
			Background: "#14141e",
			Text:       "#f2f2f5",
			Card:       "#1e1e2c",
			Border:     "#32323f",
			Gradient:   "#14141e," + colorx.AdjustLightness(primary, -0.30),
			Muted:      "#8a8a99",
			Highlight:  colorx.AdjustLightness(accent, 0.15),
			Ambient: []string{
				colorx.AdjustLightness(primary, -0.25),
				colorx.AdjustLightness(accent, -0.25),
				"#1a1a28",
			},
		},
		Motif: "thin horizontal rule",
	}
	finalizeDesignSystem(ds)
	return ds
}

// finalizeDesignSystem fills structural gaps the oracle may leave and runs
// contrast harmonization. After this the system is frozen.
func finalizeDesignSystem(ds *types.DesignSystem) {
	if len(ds.Typography.SizeScale) == 0 {
		ds.Typography.SizeScale = []float64{14, 18, 24, 36, 48, 72, 96}
	}
	if ds.Typography.LineTight == 0 {
		ds.Typography.LineTight = 1.1
	}
	if ds.Typography.LineRelaxed == 0 {
		ds.Typography.LineRelaxed = 1.6
	}
	if ds.Typography.WeightDisplay == 0 {
		ds.Typography.WeightDisplay = 800
	}
	if ds.Typography.WeightBody == 0 {
		ds.Typography.WeightBody = 400
	}
	if ds.Spacing.Unit == 0 {
		ds.Spacing.Unit = 8
	}
	if ds.Spacing.CardPadding == 0 {
		ds.Spacing.CardPadding = 32
	}
	if ds.Spacing.CardGap == 0 {
		ds.Spacing.CardGap = 24
	}
	if ds.Spacing.SafeMargin == 0 {
		ds.Spacing.SafeMargin = types.SafeMargin
	}
	if ds.Effects.CornerStyle == "" {
		ds.Effects.CornerStyle = "sharp"
	}
	if ds.Effects.DecorativeStyle == "" {
		ds.Effects.DecorativeStyle = "minimal"
	}
	if ds.Effects.ShadowStyle == "" {
		ds.Effects.ShadowStyle = "none"
	}
	if ds.Effects.AmbientGradient == "" {
		ds.Effects.AmbientGradient = ds.Colors.Gradient
	}

	colorx.Harmonize(ds)
}

// fallbackLayouts walks the static technique rotation, which satisfies the
// anti-repetition invariants for any plan up to twice the table length.
func fallbackLayouts(contentTypes []string) []types.LayoutDirective {
	out := make([]types.LayoutDirective, 0, len(contentTypes))
	for i, ct := range contentTypes {
		out = append(out, types.LayoutDirective{
			ContentType: ct,
			Technique:   layoutTechniques[i%len(layoutTechniques)],
			Description: "assigned from the static technique rotation",
		})
	}
	return out
}

// FallbackUnit builds the deterministic minimal unit used whenever a stage
// exhausts its retries: gradient background, one accent rule, one title.
// Equal inputs always produce the identical unit, so the total-failure mode
// stays structurally valid and reproducible.
func FallbackUnit(contentType string, ds *types.DesignSystem, index int) *types.Unit {
	title := titleFor(contentType)
	titleSize := ds.MaxFontSize() * 0.75

	return &types.Unit{
		ID:          fmt.Sprintf("fallback-%s-%d", contentType, index),
		ContentType: contentType,
		Background:  ds.Colors.Gradient,
		Elements: []types.Element{
			{
				ID:     fmt.Sprintf("fallback-%s-%d-rule", contentType, index),
				Type:   types.ElementShape,
				Role:   types.RoleDecorative,
				Shape:  "line",
				X:      types.CanvasWidth * 0.1,
				Y:      types.CanvasHeight * 0.42,
				Width:  types.CanvasWidth * 0.18,
				Height: 4,
				Fill:   ds.Colors.Accent,
			},
			{
				ID:       fmt.Sprintf("fallback-%s-%d-title", contentType, index),
				Type:     types.ElementText,
				Role:     types.RoleTitle,
				Text:     title,
				X:        types.CanvasWidth * 0.1,
				Y:        types.CanvasHeight * 0.46,
				Width:    types.CanvasWidth * 0.8,
				Height:   titleSize * 1.2,
				FontSize: titleSize,
				Color:    ds.Colors.Text,
			},
		},
	}
}

// titleFor renders a content-type id as display text ("key-results" ->
// "Key Results").
func titleFor(contentType string) string {
	words := strings.FieldsFunc(contentType, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return "Untitled"
	}
	return strings.Join(words, " ")
}
