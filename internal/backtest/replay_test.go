package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// replayHistory builds five double round-robins over four teams, enough to
// clear the training floor with ten fixtures left to price.
func replayHistory() []models.MatchHistoryRow {
	teams := []string{"Alpha", "Beta", "Gamma", "Delta"}
	var history []models.MatchHistoryRow
	date := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	for round := 0; round < 5; round++ {
		for _, home := range teams {
			for _, away := range teams {
				if home == away {
					continue
				}
				hg, ag := 2, 1
				if home == "Alpha" {
					hg, ag = 3, 0
				} else if away == "Alpha" {
					hg, ag = 0, 3
				}
				history = append(history, models.MatchHistoryRow{
					Date:      date,
					HomeTeam:  home,
					AwayTeam:  away,
					HomeGoals: hg,
					AwayGoals: ag,
					League:    "premier_league",
				})
				date = date.AddDate(0, 0, 1)
			}
		}
	}
	return history
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name string
		line float64
		diff float64
		want Outcome
	}{
		{"half line covered", -0.5, 1, OutcomeWin},
		{"half line beaten", -0.5, 0, OutcomeLoss},
		{"level line push", 0.0, 0, OutcomePush},
		{"level line win", 0.0, 2, OutcomeWin},
		{"whole line push", -1.0, 1, OutcomePush},
		{"quarter half loss", -0.25, 0, OutcomeHalfLoss},
		{"quarter full win", -0.25, 1, OutcomeWin},
		{"quarter half win", -0.75, 1, OutcomeHalfWin},
		{"quarter full loss", -0.75, 0, OutcomeLoss},
		{"underdog quarter half win", 0.25, 0, OutcomeHalfWin},
		{"deep favorite half loss", -1.25, 1, OutcomeHalfLoss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Settle(tt.line, tt.diff))
		})
	}
}

func TestRecordTracksFlatStakeReturn(t *testing.T) {
	m := &Metrics{}
	m.record(OutcomeWin, 2.0)
	m.record(OutcomeLoss, 2.0)
	m.record(OutcomeHalfWin, 2.0)
	m.record(OutcomeHalfLoss, 2.0)
	m.record(OutcomePush, 2.0)

	// +1.0 - 1.0 + 0.5 - 0.5 + 0 = 0.
	assert.InDelta(t, 0.0, m.UnitReturn, 1e-9)
	assert.Equal(t, 1, m.Pushes)

	m.finalize()
	assert.InDelta(t, 0.375, m.HitRate, 1e-9)
}

func TestRunRequiresMinimumHistory(t *testing.T) {
	eval := NewEvaluator(DefaultConfig(), nil)

	_, err := eval.Run(context.Background(), replayHistory()[:10])
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestRunRespectsContext(t *testing.T) {
	eval := NewEvaluator(DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eval.Run(ctx, replayHistory())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSettlesEveryFixture(t *testing.T) {
	eval := NewEvaluator(DefaultConfig(), nil)

	metrics, err := eval.Run(context.Background(), replayHistory())
	require.NoError(t, err)

	assert.Equal(t, 10, metrics.Matches)
	assert.Equal(t, metrics.Priced, metrics.Wins+metrics.HalfWins+metrics.Pushes+metrics.HalfLosses+metrics.Losses)
	assert.Equal(t, 10, metrics.Priced+metrics.Skipped)
	assert.GreaterOrEqual(t, metrics.Refits, 1)
	assert.GreaterOrEqual(t, metrics.BrierScore, 0.0)
	assert.LessOrEqual(t, metrics.BrierScore, 2.0)
	assert.True(t, metrics.EndDate.After(metrics.StartDate))
}

func TestReplayRangeFiltersDates(t *testing.T) {
	eval := NewEvaluator(DefaultConfig(), nil)
	history := replayHistory()

	// A window covering only a handful of rows cannot clear the floor.
	_, err := eval.ReplayRange(context.Background(), history, history[0].Date, history[5].Date)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}
