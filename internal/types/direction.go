package types

// Temperature is the emotional temperature assigned to one planned unit.
type Temperature string

// Temperature values for the per-unit temperature arc.
const (
	TemperatureCold    Temperature = "cold"
	TemperatureNeutral Temperature = "neutral"
	TemperatureWarm    Temperature = "warm"
)

// CreativeDirection is the stage-1 output: the single creative concept the
// rest of the pipeline executes against. Produced once, read-only thereafter.
type CreativeDirection struct {
	VisualMetaphor  string        `json:"visual_metaphor"`
	Tension         string        `json:"tension"`
	OneRule         string        `json:"one_rule"`
	ColorStory      string        `json:"color_story"`
	Motif           string        `json:"motif"`
	TypographyVoice string        `json:"typography_voice"`
	EmotionalArc    string        `json:"emotional_arc"`
	TemperatureArc  []Temperature `json:"temperature_arc,omitempty"` // one entry per planned unit, in order
	TensionUnits    []string      `json:"tension_units,omitempty"`   // content-type ids flagged for self-critique
}

// HasTension reports whether a content-type was flagged for the optional
// self-critique pass.
func (d *CreativeDirection) HasTension(contentType string) bool {
	for _, ct := range d.TensionUnits {
		if ct == contentType {
			return true
		}
	}
	return false
}

// TemperatureAt returns the temperature for unit index i, defaulting to
// neutral when the arc is shorter than the plan.
func (d *CreativeDirection) TemperatureAt(i int) Temperature {
	if i >= 0 && i < len(d.TemperatureArc) {
		return d.TemperatureArc[i]
	}
	return TemperatureNeutral
}
