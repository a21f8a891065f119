// Package features derives look-ahead-safe features from a match history table.
package features

import (
	"math"
	"sort"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// DefaultWindow is the rolling window used when the caller passes 0.
const DefaultWindow = 5

// RollingStats holds per-team rolling means over the last N completed matches
// strictly before the row's date. Samples is the number of prior matches that
// contributed; when it is zero every mean is NaN.
type RollingStats struct {
	GoalsFor     float64
	GoalsAgainst float64
	XGFor        float64
	XGAgainst    float64
	GoalDiff     float64
	XGDiff       float64
	Samples      int
}

// RollingRow is one history row augmented with both teams' rolling features.
type RollingRow struct {
	Match       models.MatchHistoryRow
	HomeRolling RollingStats
	AwayRolling RollingStats
}

type teamObservation struct {
	goalsFor     float64
	goalsAgainst float64
	xgFor        float64
	xgAgainst    float64
}

// BuildRollingAverages computes rolling means for every row of the history.
// The input is sorted internally by (date, home, away) so ties break
// deterministically; no row's features use its own outcome.
func BuildRollingAverages(history []models.MatchHistoryRow, window int) []RollingRow {
	if window <= 0 {
		window = DefaultWindow
	}

	sorted := sortHistory(history)
	past := make(map[string][]teamObservation, 32)
	rows := make([]RollingRow, 0, len(sorted))

	for _, m := range sorted {
		rows = append(rows, RollingRow{
			Match:       m,
			HomeRolling: rollingMean(past[m.HomeTeam], window),
			AwayRolling: rollingMean(past[m.AwayTeam], window),
		})

		past[m.HomeTeam] = append(past[m.HomeTeam], teamObservation{
			goalsFor:     float64(m.HomeGoals),
			goalsAgainst: float64(m.AwayGoals),
			xgFor:        nonNegative(m.HomeXG),
			xgAgainst:    nonNegative(m.AwayXG),
		})
		past[m.AwayTeam] = append(past[m.AwayTeam], teamObservation{
			goalsFor:     float64(m.AwayGoals),
			goalsAgainst: float64(m.HomeGoals),
			xgFor:        nonNegative(m.AwayXG),
			xgAgainst:    nonNegative(m.HomeXG),
		})
	}

	return rows
}

func rollingMean(observations []teamObservation, window int) RollingStats {
	n := len(observations)
	if n == 0 {
		nan := math.NaN()
		return RollingStats{GoalsFor: nan, GoalsAgainst: nan, XGFor: nan, XGAgainst: nan, GoalDiff: nan, XGDiff: nan}
	}

	start := n - window
	if start < 0 {
		start = 0
	}
	slice := observations[start:]

	var stats RollingStats
	for _, obs := range slice {
		stats.GoalsFor += obs.goalsFor
		stats.GoalsAgainst += obs.goalsAgainst
		stats.XGFor += obs.xgFor
		stats.XGAgainst += obs.xgAgainst
	}
	count := float64(len(slice))
	stats.GoalsFor /= count
	stats.GoalsAgainst /= count
	stats.XGFor /= count
	stats.XGAgainst /= count
	stats.GoalDiff = stats.GoalsFor - stats.GoalsAgainst
	stats.XGDiff = stats.XGFor - stats.XGAgainst
	stats.Samples = len(slice)
	return stats
}

// SortHistory returns a copy of the history ordered by (date, home, away),
// the same deterministic order the feature builders use.
func SortHistory(history []models.MatchHistoryRow) []models.MatchHistoryRow {
	return sortHistory(history)
}

func sortHistory(history []models.MatchHistoryRow) []models.MatchHistoryRow {
	sorted := make([]models.MatchHistoryRow, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		if sorted[i].HomeTeam != sorted[j].HomeTeam {
			return sorted[i].HomeTeam < sorted[j].HomeTeam
		}
		return sorted[i].AwayTeam < sorted[j].AwayTeam
	})
	return sorted
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
