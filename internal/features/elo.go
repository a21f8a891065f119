package features

import (
	"math"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// Elo defaults.
const (
	DefaultEloK       = 20.0
	DefaultEloInitial = 1500.0
)

// EloRow is one history row with both teams' pre-match ratings. The ratings
// reflect state before the row's result is incorporated.
type EloRow struct {
	Match   models.MatchHistoryRow
	HomeElo float64
	AwayElo float64
}

// BuildElo walks matches in date order and records pre-match Elo ratings,
// then updates both teams with the expected-score rule. A team's first
// appearance seeds it at the initial rating. Updates are zero-sum.
func BuildElo(history []models.MatchHistoryRow, k, initial float64) []EloRow {
	if k <= 0 {
		k = DefaultEloK
	}
	if initial <= 0 {
		initial = DefaultEloInitial
	}

	sorted := sortHistory(history)
	ratings := make(map[string]float64, 32)
	rows := make([]EloRow, 0, len(sorted))

	for _, m := range sorted {
		home := ratingOrSeed(ratings, m.HomeTeam, initial)
		away := ratingOrSeed(ratings, m.AwayTeam, initial)

		rows = append(rows, EloRow{Match: m, HomeElo: home, AwayElo: away})

		expectedHome := 1.0 / (1.0 + math.Pow(10, (away-home)/400.0))
		actualHome := actualScore(m.HomeGoals, m.AwayGoals)

		delta := k * (actualHome - expectedHome)
		ratings[m.HomeTeam] = home + delta
		ratings[m.AwayTeam] = away - delta
	}

	return rows
}

// CurrentRatings replays the history and returns the post-history rating map.
func CurrentRatings(history []models.MatchHistoryRow, k, initial float64) map[string]float64 {
	if initial <= 0 {
		initial = DefaultEloInitial
	}
	rows := BuildElo(history, k, initial)
	ratings := make(map[string]float64, 32)
	for _, row := range rows {
		// Re-apply the final update so the map holds post-match state.
		expectedHome := 1.0 / (1.0 + math.Pow(10, (row.AwayElo-row.HomeElo)/400.0))
		actualHome := actualScore(row.Match.HomeGoals, row.Match.AwayGoals)
		kf := k
		if kf <= 0 {
			kf = DefaultEloK
		}
		delta := kf * (actualHome - expectedHome)
		ratings[row.Match.HomeTeam] = row.HomeElo + delta
		ratings[row.Match.AwayTeam] = row.AwayElo - delta
	}
	return ratings
}

func ratingOrSeed(ratings map[string]float64, team string, initial float64) float64 {
	if r, ok := ratings[team]; ok {
		return r
	}
	ratings[team] = initial
	return initial
}

func actualScore(homeGoals, awayGoals int) float64 {
	switch {
	case homeGoals > awayGoals:
		return 1.0
	case homeGoals < awayGoals:
		return 0.0
	default:
		return 0.5
	}
}
