package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

func day(n int) time.Time {
	return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func row(n int, home, away string, hg, ag int, hxg, axg float64) models.MatchHistoryRow {
	return models.MatchHistoryRow{
		Date:      day(n),
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: hg,
		AwayGoals: ag,
		HomeXG:    hxg,
		AwayXG:    axg,
	}
}

func TestRollingFirstAppearanceIsNaN(t *testing.T) {
	rows := BuildRollingAverages([]models.MatchHistoryRow{
		row(0, "Arsenal", "Chelsea", 2, 1, 1.8, 0.9),
	}, 5)

	require.Len(t, rows, 1)
	assert.True(t, math.IsNaN(rows[0].HomeRolling.GoalsFor))
	assert.True(t, math.IsNaN(rows[0].AwayRolling.GoalsFor))
	assert.Equal(t, 0, rows[0].HomeRolling.Samples)
}

func TestRollingExcludesOwnMatch(t *testing.T) {
	rows := BuildRollingAverages([]models.MatchHistoryRow{
		row(0, "Arsenal", "Chelsea", 3, 0, 2.5, 0.4),
		row(7, "Chelsea", "Arsenal", 1, 1, 1.0, 1.1),
	}, 5)

	require.Len(t, rows, 2)
	// Second row sees only the first result, never its own.
	assert.InDelta(t, 0.0, rows[1].HomeRolling.GoalsFor, 1e-9)
	assert.InDelta(t, 3.0, rows[1].HomeRolling.GoalsAgainst, 1e-9)
	assert.InDelta(t, 3.0, rows[1].AwayRolling.GoalsFor, 1e-9)
	assert.Equal(t, 1, rows[1].AwayRolling.Samples)
}

func TestRollingWindowTrims(t *testing.T) {
	history := []models.MatchHistoryRow{
		row(0, "Arsenal", "Chelsea", 5, 0, 4.0, 0.2),
		row(7, "Arsenal", "Spurs", 1, 0, 1.0, 0.5),
		row(14, "Arsenal", "Everton", 1, 0, 1.0, 0.5),
		row(21, "Arsenal", "Fulham", 1, 0, 1.0, 0.5),
	}
	rows := BuildRollingAverages(history, 2)

	last := rows[len(rows)-1]
	// Window of 2 sees the 1-0 wins only, not the opening 5-0.
	assert.InDelta(t, 1.0, last.HomeRolling.GoalsFor, 1e-9)
	assert.Equal(t, 2, last.HomeRolling.Samples)
}

func TestRollingSortsByDate(t *testing.T) {
	history := []models.MatchHistoryRow{
		row(7, "Chelsea", "Arsenal", 0, 2, 0.6, 1.9),
		row(0, "Arsenal", "Chelsea", 1, 0, 1.2, 0.8),
	}
	rows := BuildRollingAverages(history, 5)

	assert.Equal(t, day(0), rows[0].Match.Date)
	assert.Equal(t, day(7), rows[1].Match.Date)
	// The later match sees the earlier one.
	assert.Equal(t, 1, rows[1].HomeRolling.Samples)
}

func TestRollingDiffDerivation(t *testing.T) {
	history := []models.MatchHistoryRow{
		row(0, "Arsenal", "Chelsea", 2, 1, 1.5, 1.0),
		row(7, "Arsenal", "Spurs", 0, 0, 0.5, 0.5),
	}
	rows := BuildRollingAverages(history, 5)

	last := rows[1]
	assert.InDelta(t, last.HomeRolling.GoalsFor-last.HomeRolling.GoalsAgainst, last.HomeRolling.GoalDiff, 1e-9)
	assert.InDelta(t, last.HomeRolling.XGFor-last.HomeRolling.XGAgainst, last.HomeRolling.XGDiff, 1e-9)
}

func TestRollingNegativeXGTreatedAsZero(t *testing.T) {
	history := []models.MatchHistoryRow{
		row(0, "Arsenal", "Chelsea", 1, 0, -1.0, 0.5),
		row(7, "Arsenal", "Spurs", 1, 0, 1.0, 0.5),
	}
	rows := BuildRollingAverages(history, 5)

	assert.InDelta(t, 0.0, rows[1].HomeRolling.XGFor, 1e-9)
}
