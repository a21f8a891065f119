package pricing

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/statmodel"
)

func floatPtr(v float64) *float64 { return &v }

func validEvidence() *models.Evidence {
	return &models.Evidence{
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		League:   "premier_league",
		Date:     time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC),
		SeasonStats: &models.SeasonStatsBlock{
			Home: &models.TeamSeasonStats{PPG: 2.0, XGPerGame: 1.8, XGAPerGame: 0.9, Rank: 2, MatchesPlayed: 20, GoalsFor: 40},
			Away: &models.TeamSeasonStats{PPG: 1.2, XGPerGame: 1.2, XGAPerGame: 1.5, Rank: 12, MatchesPlayed: 20, GoalsFor: 22},
		},
		Lineups:        &models.LineupsBlock{HomeFormation: "4-3-3", AwayFormation: "4-4-2", Confirmed: true},
		Injuries:       &models.InjuryReport{},
		SentimentScore: floatPtr(0.3),
		NewsItemCount:  11,
	}
}

func leagueModel() *statmodel.Model {
	return &statmodel.Model{
		Intercept:     0.1,
		HomeAdvantage: 0.25,
		Attack:        map[string]float64{"Arsenal": 0.4, "Chelsea": 0.1},
		Defense:       map[string]float64{"Arsenal": -0.2, "Chelsea": 0.1},
		Matches:       120,
		League:        "premier_league",
	}
}

func TestPriceNilEvidence(t *testing.T) {
	svc := NewService(nil, nil, nil)

	d, err := svc.Price(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionVeto, d.Class)
	assert.Equal(t, 3, d.Tier)
	assert.Contains(t, d.Reasons[0], "invalid input")
}

func TestPriceMissingDate(t *testing.T) {
	svc := NewService(nil, nil, nil)

	d, err := svc.Price(context.Background(), &models.Evidence{HomeTeam: "Arsenal", AwayTeam: "Chelsea"})
	require.NoError(t, err)
	assert.Equal(t, models.DecisionVeto, d.Class)
	assert.Contains(t, d.Reasons[0], "invalid input")
}

func TestPriceNaNSentiment(t *testing.T) {
	svc := NewService(nil, nil, nil)
	ev := validEvidence()
	ev.SentimentScore = floatPtr(math.NaN())

	d, err := svc.Price(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionVeto, d.Class)
	assert.Contains(t, d.Reasons[0], "invalid input")
	// The match reference survives for the audit trail.
	assert.Equal(t, "Arsenal", d.Match.Home)
}

func TestPriceNaNSeasonStat(t *testing.T) {
	svc := NewService(nil, nil, nil)
	ev := validEvidence()
	ev.SeasonStats.Home.PPG = math.Inf(1)

	d, err := svc.Price(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionVeto, d.Class)
}

func TestPriceCancelledContext(t *testing.T) {
	svc := NewService(nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Price(ctx, validEvidence())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPriceBaselineWithoutModel(t *testing.T) {
	svc := NewService(nil, nil, nil)

	d, err := svc.Price(context.Background(), validEvidence())
	require.NoError(t, err)
	assert.Equal(t, "baseline", d.Statistical.Source)
	assert.NotEqual(t, models.DecisionVeto, d.Class)
	assert.NotEmpty(t, d.YudorAHTeam)
}

func TestPriceUsesFittedModel(t *testing.T) {
	cache := NewModelCache(time.Hour)
	cache.Set(ModelKey{League: "premier_league", Season: "2024-25"}, leagueModel())
	svc := NewService(cache, nil, nil)

	d, err := svc.Price(context.Background(), validEvidence())
	require.NoError(t, err)
	assert.Equal(t, "poisson_glm", d.Statistical.Source)
	assert.Greater(t, d.Statistical.HomeXG, d.Statistical.AwayXG)
}

func TestPriceUnknownTeamFallsBack(t *testing.T) {
	cache := NewModelCache(time.Hour)
	cache.Set(ModelKey{League: "premier_league", Season: "2024-25"}, leagueModel())
	svc := NewService(cache, nil, nil)

	ev := validEvidence()
	ev.HomeTeam = "Leeds"

	d, err := svc.Price(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, "baseline", d.Statistical.Source)
	assert.Contains(t, d.Reasons, "Unknown team, neutral baseline applied")
}

func TestPriceSentimentShiftsBaseline(t *testing.T) {
	svc := NewService(nil, nil, nil)

	positive := validEvidence()
	positive.SentimentScore = floatPtr(0.5)
	negative := validEvidence()
	negative.SentimentScore = floatPtr(-0.5)

	dPos, err := svc.Price(context.Background(), positive)
	require.NoError(t, err)
	dNeg, err := svc.Price(context.Background(), negative)
	require.NoError(t, err)

	assert.Greater(t, dPos.Probabilities.Home, dNeg.Probabilities.Home)
}

func TestPriceDeterministic(t *testing.T) {
	cache := NewModelCache(time.Hour)
	cache.Set(ModelKey{League: "premier_league", Season: "2024-25"}, leagueModel())
	svc := NewService(cache, nil, nil)

	a, err := svc.Price(context.Background(), validEvidence())
	require.NoError(t, err)
	b, err := svc.Price(context.Background(), validEvidence())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

type stubMetrics struct{}

func (stubMetrics) TeamMetrics(league, team string) (statmodel.TeamMetrics, bool) {
	return statmodel.TeamMetrics{
		AttackHome: 1.4, AttackAway: 1.3, DefenseHome: 0.8, DefenseAway: 0.7,
	}, true
}

func TestPriceTeamMetricsFallback(t *testing.T) {
	svc := NewService(nil, stubMetrics{}, nil)

	d, err := svc.Price(context.Background(), validEvidence())
	require.NoError(t, err)
	assert.Equal(t, "team_metrics", d.Statistical.Source)
	assert.Greater(t, d.Statistical.HomeXG, 0.0)
	assert.Greater(t, d.Statistical.AwayXG, 0.0)
}

func TestPriceTeamMetricsKeepBaselineProbabilities(t *testing.T) {
	withMetrics := NewService(nil, stubMetrics{}, nil)
	withoutMetrics := NewService(nil, nil, nil)

	dMetrics, err := withMetrics.Price(context.Background(), validEvidence())
	require.NoError(t, err)
	dBaseline, err := withoutMetrics.Price(context.Background(), validEvidence())
	require.NoError(t, err)

	// Venue strengths feed expected goals, not the probability path.
	assert.Equal(t, dBaseline.Probabilities, dMetrics.Probabilities)
}

func TestPriceTeamMetricsSentimentStillShifts(t *testing.T) {
	svc := NewService(nil, stubMetrics{}, nil)

	positive := validEvidence()
	positive.SentimentScore = floatPtr(0.5)
	negative := validEvidence()
	negative.SentimentScore = floatPtr(-0.5)

	dPos, err := svc.Price(context.Background(), positive)
	require.NoError(t, err)
	dNeg, err := svc.Price(context.Background(), negative)
	require.NoError(t, err)

	assert.Greater(t, dPos.Probabilities.Home, dNeg.Probabilities.Home)
}
