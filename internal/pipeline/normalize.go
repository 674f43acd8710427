package pipeline

import (
	"math"
	"sort"

	"github.com/jonathan/deck-pipeline/internal/types"
)

// Normalization thresholds. Title Y positions drifting beyond the snap
// threshold are pulled to the median. Font sizes snap only inside a
// relative band: tiny deviations read as intentional rhythm and extreme
// ones as intentional contrast, so both are left alone.
const (
	titleYSnapThreshold = 60.0
	fontSnapBandLow     = 0.10
	fontSnapBandHigh    = 0.35
)

// normalizeTitles runs stage 6: cross-unit consistency for title elements.
// The first and last units are excluded; they are allowed to break the
// deck's grid deliberately.
func normalizeTitles(units []types.Unit) {
	if len(units) <= 2 {
		return
	}

	var titles []*types.Element
	for i := 1; i < len(units)-1; i++ {
		titles = append(titles, units[i].ElementsByRole(types.RoleTitle)...)
	}
	if len(titles) < 2 {
		return
	}

	ys := make([]float64, 0, len(titles))
	sizes := make([]float64, 0, len(titles))
	for _, t := range titles {
		ys = append(ys, t.Y)
		if t.FontSize > 0 {
			sizes = append(sizes, t.FontSize)
		}
	}

	medianY := median(ys)
	medianSize := median(sizes)

	for _, t := range titles {
		if math.Abs(t.Y-medianY) > titleYSnapThreshold {
			t.Y = medianY
		}
		if t.FontSize > 0 && medianSize > 0 {
			dev := math.Abs(t.FontSize-medianSize) / medianSize
			if dev > fontSnapBandLow && dev <= fontSnapBandHigh {
				t.FontSize = medianSize
			}
		}
	}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
