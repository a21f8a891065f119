// Package ahline renormalizes raw probabilities and prices the Asian
// Handicap ladder to find the fair line.
package ahline

import (
	"math"
)

// Probability clamps applied after normalization.
const (
	MinProbPct = 5.0
	MaxProbPct = 90.0
)

// decimalInputThreshold triggers the sum heuristic: inputs summing at or
// below this are decimals, not percentages.
const decimalInputThreshold = 10.0

// NormalizedProbs holds the normalized 1X2 percentages summing to 100.
type NormalizedProbs struct {
	HomePct float64
	AwayPct float64
	DrawPct float64
}

// Favorite returns the side with the higher percentage; ties go to home.
func (n NormalizedProbs) Favorite() (homeIsFavorite bool, favPct float64) {
	if n.HomePct >= n.AwayPct {
		return true, n.HomePct
	}
	return false, n.AwayPct
}

// Normalize applies the sanctioned rule: any surplus or deficit against 100
// is split equally between home and away while the draw stays untouched.
// Decimal inputs are detected by the sum heuristic and scaled first. Results
// are clamped to [5, 90] and the split re-applied if clamping moved the sum.
func Normalize(rawHome, rawAway, draw float64) NormalizedProbs {
	// The sum heuristic is the only decimal detection; a legitimately tiny
	// draw percentage next to percentage home/away inputs must stay as is.
	if rawHome+rawAway+draw <= decimalInputThreshold {
		rawHome *= 100
		rawAway *= 100
		draw *= 100
	}

	home, away := splitToHundred(rawHome, rawAway, draw)

	clampedHome := clampPct(home)
	clampedAway := clampPct(away)
	clampedDraw := clampPct(draw)
	if clampedHome != home || clampedAway != away || clampedDraw != draw {
		home, away = splitToHundred(clampedHome, clampedAway, clampedDraw)
		home = clampPct(home)
		away = clampPct(away)
		draw = clampedDraw
	}

	return NormalizedProbs{HomePct: home, AwayPct: away, DrawPct: draw}
}

func splitToHundred(home, away, draw float64) (float64, float64) {
	sum := home + away + draw
	adjust := (100 - sum) / 2
	return home + adjust, away + adjust
}

func clampPct(v float64) float64 {
	if math.IsNaN(v) || v < MinProbPct {
		return MinProbPct
	}
	if v > MaxProbPct {
		return MaxProbPct
	}
	return v
}
