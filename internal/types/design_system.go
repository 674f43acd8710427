package types

// ColorPalette holds every named color of the design system as hex strings.
type ColorPalette struct {
	Primary    string   `json:"primary"`
	Secondary  string   `json:"secondary"`
	Accent     string   `json:"accent"`
	Background string   `json:"background"`
	Text       string   `json:"text"`
	Card       string   `json:"card"`
	Border     string   `json:"border"`
	Gradient   string   `json:"gradient"` // CSS-style gradient stop list, e.g. "#0f0c29,#302b63"
	Muted      string   `json:"muted"`
	Highlight  string   `json:"highlight"`
	Ambient    []string `json:"ambient,omitempty"` // 3 low-intensity tones for backdrop washes
}

// Typography describes the type system shared by all units.
type Typography struct {
	SizeScale     []float64 `json:"size_scale"`   // ascending font sizes, pt
	LetterTight   string    `json:"letter_tight"` // e.g. "-0.02em"
	LetterWide    string    `json:"letter_wide"`  // e.g. "0.12em"
	LineTight     float64   `json:"line_tight"`
	LineRelaxed   float64   `json:"line_relaxed"`
	WeightDisplay int       `json:"weight_display"`
	WeightBody    int       `json:"weight_body"`
}

// Spacing describes the spatial rhythm shared by all units.
type Spacing struct {
	Unit        float64 `json:"unit"`
	CardPadding float64 `json:"card_padding"`
	CardGap     float64 `json:"card_gap"`
	SafeMargin  float64 `json:"safe_margin"`
}

// Effects describes the decorative treatment shared by all units.
type Effects struct {
	CornerStyle     string `json:"corner_style"`     // "sharp" | "rounded" | "pill"
	DecorativeStyle string `json:"decorative_style"` // "geometric" | "organic" | "minimal"
	ShadowStyle     string `json:"shadow_style"`     // "none" | "soft" | "hard"
	AmbientGradient string `json:"ambient_gradient"`
}

// DesignSystem is the stage-2 output: the frozen visual language every unit
// is generated against. The palette is contrast-harmonized before the system
// is handed to later stages; after that it is read-only.
type DesignSystem struct {
	Colors     ColorPalette `json:"colors"`
	Typography Typography   `json:"typography"`
	Spacing    Spacing      `json:"spacing"`
	Effects    Effects      `json:"effects"`
	Motif      string       `json:"motif"`
}

// MaxFontSize returns the largest size in the scale, or a sane default when
// the oracle returned an empty scale.
func (ds *DesignSystem) MaxFontSize() float64 {
	if len(ds.Typography.SizeScale) == 0 {
		return 72
	}
	max := ds.Typography.SizeScale[0]
	for _, s := range ds.Typography.SizeScale[1:] {
		if s > max {
			max = s
		}
	}
	return max
}
