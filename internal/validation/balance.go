package validation

import (
	"fmt"

	"github.com/jonathan/deck-pipeline/internal/types"
)

// Balance grid partitions.
const (
	balanceCols = 4
	balanceRows = 3
)

// balanceFloor is the balance score under which concentration is flagged.
// Max-normalized loads bound the variance by 0.25 and thus the score below
// by 0.5, so the floor sits between that bound and 1.
const balanceFloor = 0.6

// checkBalance partitions the canvas into a 4x3 grid, accumulates the area
// each element contributes to each cell, and flags compositions where
// coverage is concentrated in few cells. The balance score is
// 1 - variance*2 of the max-normalized cell loads, clipped to [0, 1].
func checkBalance(unit *types.Unit) []types.Issue {
	if len(unit.Elements) == 0 {
		return nil
	}

	cellW := types.CanvasWidth / balanceCols
	cellH := types.CanvasHeight / balanceRows

	var cells [balanceRows][balanceCols]float64
	for i := range unit.Elements {
		e := &unit.Elements[i]
		for r := 0; r < balanceRows; r++ {
			for c := 0; c < balanceCols; c++ {
				cells[r][c] += overlap(e.X, e.X+e.Width, float64(c)*cellW, float64(c+1)*cellW) *
					overlap(e.Y, e.Y+e.Height, float64(r)*cellH, float64(r+1)*cellH)
			}
		}
	}

	maxCell := 0.0
	for r := 0; r < balanceRows; r++ {
		for c := 0; c < balanceCols; c++ {
			if cells[r][c] > maxCell {
				maxCell = cells[r][c]
			}
		}
	}
	if maxCell == 0 {
		return nil
	}

	// Variance of the normalized loads.
	n := float64(balanceRows * balanceCols)
	mean := 0.0
	for r := 0; r < balanceRows; r++ {
		for c := 0; c < balanceCols; c++ {
			mean += cells[r][c] / maxCell
		}
	}
	mean /= n

	variance := 0.0
	for r := 0; r < balanceRows; r++ {
		for c := 0; c < balanceCols; c++ {
			d := cells[r][c]/maxCell - mean
			variance += d * d
		}
	}
	variance /= n

	score := 1 - variance*2
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	if score < balanceFloor {
		return []types.Issue{{
			Severity: types.SeveritySuggestion,
			Category: types.IssueBalance,
			Message:  fmt.Sprintf("visual weight concentrated (balance %.2f)", score),
		}}
	}
	return nil
}

// overlap returns the length of the intersection of [a0,a1] and [b0,b1].
func overlap(a0, a1, b0, b1 float64) float64 {
	lo, hi := a0, a1
	if b0 > lo {
		lo = b0
	}
	if b1 < hi {
		hi = b1
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}
