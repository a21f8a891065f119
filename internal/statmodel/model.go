package statmodel

import (
	"math"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// Model is a fitted Poisson goal model. Values are immutable after Fit;
// callers may share one model across concurrent predictions.
type Model struct {
	Intercept     float64            `json:"intercept"`
	HomeAdvantage float64            `json:"home_advantage"`
	Attack        map[string]float64 `json:"attack"`
	Defense       map[string]float64 `json:"defense"`
	Matches       int                `json:"matches"`
	League        string             `json:"league,omitempty"`
	Season        string             `json:"season,omitempty"`
}

// Prediction is the model output for one fixture.
type Prediction struct {
	LambdaHome    float64
	LambdaAway    float64
	Matrix        [][]float64
	Probabilities models.Probabilities
}

// Predict returns expected goals and the Dixon-Coles-corrected scoreline
// distribution for the pair. Teams absent from training yield ErrUnknownTeam.
func (m *Model) Predict(home, away string) (*Prediction, error) {
	homeAttack, okHA := m.Attack[home]
	awayDefense, okAD := m.Defense[away]
	awayAttack, okAA := m.Attack[away]
	homeDefense, okHD := m.Defense[home]
	if !okHA || !okAD || !okAA || !okHD {
		return nil, models.ErrUnknownTeam
	}

	lambdaHome := math.Exp(m.Intercept + m.HomeAdvantage + homeAttack + awayDefense)
	lambdaAway := math.Exp(m.Intercept + awayAttack + homeDefense)

	return predictionFromLambdas(lambdaHome, lambdaAway), nil
}

// Teams returns the number of teams the model knows.
func (m *Model) Teams() int {
	return len(m.Attack)
}

// Knows reports whether both teams were seen in training.
func (m *Model) Knows(home, away string) bool {
	_, okH := m.Attack[home]
	_, okA := m.Attack[away]
	return okH && okA
}

func predictionFromLambdas(lambdaHome, lambdaAway float64) *Prediction {
	matrix := ScoreMatrix(lambdaHome, lambdaAway, DixonColesRho)
	home, draw, away := OutcomeProbabilities(matrix)
	return &Prediction{
		LambdaHome: lambdaHome,
		LambdaAway: lambdaAway,
		Matrix:     matrix,
		Probabilities: models.Probabilities{
			Home: home,
			Draw: draw,
			Away: away,
		},
	}
}

// TeamMetrics is the per-team season summary used by the fixture-time
// fallback when no fitted model is available. Strengths hover around 1.0.
type TeamMetrics struct {
	AttackHome  float64
	AttackAway  float64
	DefenseHome float64
	DefenseAway float64
	GFHomeAvg   float64
	GAHomeAvg   float64
	GFAwayAvg   float64
	GAAwayAvg   float64
}

// MetricsFromHistory computes venue-split averages and strengths for one team
// relative to the league-wide scoring rate in the slice.
func MetricsFromHistory(history []models.MatchHistoryRow, team string) TeamMetrics {
	var gfHome, gaHome, gfAway, gaAway float64
	var homeGames, awayGames int
	var leagueHomeGoals, leagueAwayGoals float64

	for _, m := range history {
		leagueHomeGoals += float64(m.HomeGoals)
		leagueAwayGoals += float64(m.AwayGoals)
		if m.HomeTeam == team {
			gfHome += float64(m.HomeGoals)
			gaHome += float64(m.AwayGoals)
			homeGames++
		}
		if m.AwayTeam == team {
			gfAway += float64(m.AwayGoals)
			gaAway += float64(m.HomeGoals)
			awayGames++
		}
	}

	metrics := TeamMetrics{AttackHome: 1, AttackAway: 1, DefenseHome: 1, DefenseAway: 1}
	total := float64(len(history))
	if total == 0 {
		return metrics
	}
	leagueHomeAvg := leagueHomeGoals / total
	leagueAwayAvg := leagueAwayGoals / total

	if homeGames > 0 {
		metrics.GFHomeAvg = gfHome / float64(homeGames)
		metrics.GAHomeAvg = gaHome / float64(homeGames)
		if leagueHomeAvg > 0 {
			metrics.AttackHome = metrics.GFHomeAvg / leagueHomeAvg
		}
		if leagueAwayAvg > 0 {
			metrics.DefenseHome = metrics.GAHomeAvg / leagueAwayAvg
		}
	}
	if awayGames > 0 {
		metrics.GFAwayAvg = gfAway / float64(awayGames)
		metrics.GAAwayAvg = gaAway / float64(awayGames)
		if leagueAwayAvg > 0 {
			metrics.AttackAway = metrics.GFAwayAvg / leagueAwayAvg
		}
		if leagueHomeAvg > 0 {
			metrics.DefenseAway = metrics.GAAwayAvg / leagueHomeAvg
		}
	}
	return metrics
}

// PredictFromMetrics derives a scoreline distribution from venue-split
// strengths when no fitted GLM exists. League scoring baselines of 1.5/1.2
// home/away goals are assumed.
func PredictFromMetrics(home, away TeamMetrics) *Prediction {
	const (
		baseHomeGoals = 1.5
		baseAwayGoals = 1.2
	)
	lambdaHome := clampLambda(baseHomeGoals * home.AttackHome * away.DefenseAway)
	lambdaAway := clampLambda(baseAwayGoals * away.AttackAway * home.DefenseHome)
	return predictionFromLambdas(lambdaHome, lambdaAway)
}

func clampLambda(v float64) float64 {
	if math.IsNaN(v) || v < 0.05 {
		return 0.05
	}
	if v > 10 {
		return 10
	}
	return v
}
