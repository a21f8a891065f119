package statmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// syntheticHistory builds five double round-robins over four teams. Alpha
// wins every match 3-0; all other pairings finish 2-1 to the home side.
func syntheticHistory() []models.MatchHistoryRow {
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
				})
				date = date.AddDate(0, 0, 1)
			}
		}
	}
	return history
}

func TestFitRequiresMinimumHistory(t *testing.T) {
	history := syntheticHistory()[:MinTrainingMatches-1]

	_, err := Fit(history)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestFitRecoversStructure(t *testing.T) {
	model, err := Fit(syntheticHistory())
	require.NoError(t, err)

	assert.Equal(t, 60, model.Matches)
	assert.Equal(t, 4, model.Teams())
	// Home sides outscore away sides in the synthetic data.
	assert.Greater(t, model.HomeAdvantage, 0.0)
	// Alpha's attack dominates and its defense concedes least.
	assert.Greater(t, model.Attack["Alpha"], model.Attack["Beta"])
	assert.Less(t, model.Defense["Alpha"], model.Defense["Beta"])
}

func TestPredictFavorsStrongerTeam(t *testing.T) {
	model, err := Fit(syntheticHistory())
	require.NoError(t, err)

	pred, err := model.Predict("Alpha", "Beta")
	require.NoError(t, err)

	assert.Greater(t, pred.LambdaHome, pred.LambdaAway)
	assert.Greater(t, pred.Probabilities.Home, pred.Probabilities.Away)
	sum := pred.Probabilities.Home + pred.Probabilities.Draw + pred.Probabilities.Away
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPredictUnknownTeam(t *testing.T) {
	model, err := Fit(syntheticHistory())
	require.NoError(t, err)

	_, err = model.Predict("Alpha", "Leeds")
	assert.ErrorIs(t, err, models.ErrUnknownTeam)

	assert.True(t, model.Knows("Alpha", "Beta"))
	assert.False(t, model.Knows("Alpha", "Leeds"))
}

func TestMetricsFromHistory(t *testing.T) {
	history := syntheticHistory()
	m := MetricsFromHistory(history, "Alpha")

	// Alpha scores three per game everywhere.
	assert.InDelta(t, 3.0, m.GFHomeAvg, 1e-9)
	assert.InDelta(t, 3.0, m.GFAwayAvg, 1e-9)
	assert.InDelta(t, 0.0, m.GAHomeAvg, 1e-9)
	assert.Greater(t, m.AttackHome, 1.0)
}

func TestMetricsFromHistoryUnknownTeam(t *testing.T) {
	m := MetricsFromHistory(syntheticHistory(), "Leeds")

	// No appearances leave the neutral strengths in place.
	assert.Equal(t, 1.0, m.AttackHome)
	assert.Equal(t, 1.0, m.DefenseAway)
	assert.Equal(t, 0.0, m.GFHomeAvg)
}

func TestPredictFromMetricsClampsLambdas(t *testing.T) {
	pred := PredictFromMetrics(TeamMetrics{AttackHome: 100, DefenseHome: 1, AttackAway: 1, DefenseAway: 1},
		TeamMetrics{AttackHome: 1, DefenseHome: 1, AttackAway: 1, DefenseAway: 100})

	assert.LessOrEqual(t, pred.LambdaHome, 10.0)
	sum := pred.Probabilities.Home + pred.Probabilities.Draw + pred.Probabilities.Away
	assert.InDelta(t, 1.0, sum, 1e-9)
}
