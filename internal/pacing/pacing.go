// Package pacing assigns each content-type its energy, density, and
// whitespace budget. The table is static: pacing is an editorial decision,
// not something the oracle gets to negotiate.
package pacing

// Energy describes where a unit sits in the deck's rhythm.
type Energy string

// Energy levels.
const (
	EnergyCalm     Energy = "calm"
	EnergyBuilding Energy = "building"
	EnergyPeak     Energy = "peak"
	EnergyBreath   Energy = "breath"
	EnergyFinale   Energy = "finale"
)

// Density describes how full a unit's canvas should be.
type Density string

// Density levels.
const (
	DensityMinimal  Density = "minimal"
	DensityBalanced Density = "balanced"
	DensityDense    Density = "dense"
)

// Directive is the pacing budget for one content-type.
type Directive struct {
	Energy        Energy
	Density       Density
	Surprise      bool
	MaxElements   int
	MinWhitespace float64 // fraction of canvas that must stay empty
}

var table = map[string]Directive{
	"hook":         {Energy: EnergyPeak, Density: DensityMinimal, Surprise: true, MaxElements: 6, MinWhitespace: 0.55},
	"introduction": {Energy: EnergyCalm, Density: DensityMinimal, MaxElements: 7, MinWhitespace: 0.50},
	"context":      {Energy: EnergyBuilding, Density: DensityBalanced, MaxElements: 10, MinWhitespace: 0.35},
	"goals":        {Energy: EnergyBuilding, Density: DensityBalanced, MaxElements: 10, MinWhitespace: 0.35},
	"audience":     {Energy: EnergyCalm, Density: DensityBalanced, MaxElements: 9, MinWhitespace: 0.40},
	"strategy":     {Energy: EnergyPeak, Density: DensityDense, Surprise: true, MaxElements: 12, MinWhitespace: 0.25},
	"creative":     {Energy: EnergyPeak, Density: DensityBalanced, Surprise: true, MaxElements: 10, MinWhitespace: 0.35},
	"timeline":     {Energy: EnergyBuilding, Density: DensityDense, MaxElements: 12, MinWhitespace: 0.25},
	"budget":       {Energy: EnergyBreath, Density: DensityBalanced, MaxElements: 9, MinWhitespace: 0.40},
	"results":      {Energy: EnergyPeak, Density: DensityBalanced, MaxElements: 10, MinWhitespace: 0.35},
	"closing":      {Energy: EnergyFinale, Density: DensityMinimal, MaxElements: 6, MinWhitespace: 0.55},
}

// defaultDirective covers content-types the table does not name.
var defaultDirective = Directive{
	Energy:        EnergyBuilding,
	Density:       DensityBalanced,
	MaxElements:   10,
	MinWhitespace: 0.35,
}

// For returns the pacing directive for a content-type.
func For(contentType string) Directive {
	if d, ok := table[contentType]; ok {
		return d
	}
	return defaultDirective
}
