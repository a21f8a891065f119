package pricing

import (
	"context"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/ahline"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/decision"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/medallion"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/metrics"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/qscore"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/statmodel"
)

// Baseline probabilities used when the statistical model cannot price the
// pair, in percent.
const (
	baselineHomePct = 45.0
	baselineDrawPct = 25.0
	baselineAwayPct = 30.0
)

// Fallback adjustment factors.
const (
	qShiftFactor         = 0.25
	sentimentShiftFactor = 5.0
)

// MetricsSource supplies per-team venue strengths for the fixture-time
// fallback. Implementations are optional.
type MetricsSource interface {
	TeamMetrics(league, team string) (statmodel.TeamMetrics, bool)
}

// Service is the pricing façade. Price is a pure function of its inputs:
// no I/O happens inside and concurrent calls share no mutable state.
type Service struct {
	models   *ModelCache
	teamData MetricsSource
	engine   *decision.Engine
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewService creates the façade. teamData may be nil.
func NewService(modelCache *ModelCache, teamData MetricsSource, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	if modelCache == nil {
		modelCache = NewModelCache(0)
	}
	return &Service{
		models:   modelCache,
		teamData: teamData,
		engine:   decision.NewEngine(decision.DefaultConfidenceWeights(), logger),
		validate: validator.New(),
		logger:   logger,
	}
}

// Models exposes the model cache so callers can pre-fit slices.
func (s *Service) Models() *ModelCache {
	return s.models
}

// Price runs the full pipeline for one fixture and always returns a
// Decision; data-quality failures surface as VETO, never as an error.
// The only error return is context cancellation.
func (s *Service) Price(ctx context.Context, ev *models.Evidence) (*models.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if field := s.contractViolation(ev); field != "" {
		metrics.DecisionsTotal.WithLabelValues(string(models.DecisionVeto)).Inc()
		return contractVetoDecision(ev, field), nil
	}

	timer := metrics.NewPricingTimer()
	defer timer.ObserveDuration()

	stat, tierPenalty, extraReasons := s.statistical(ev)
	qs := qscore.Consolidate(ev)
	med := medallion.Score(ev)

	rawHome, rawAway, rawDraw := s.rawProbabilities(ev, stat, qs)

	probs := ahline.Normalize(rawHome, rawAway, rawDraw)
	homeIsFav, favPct := probs.Favorite()
	favorite := models.SideHome
	if !homeIsFav {
		favorite = models.SideAway
	}
	ladder := ahline.BuildLadder(favPct, favorite)

	d := s.engine.Decide(decision.Input{
		Evidence:     ev,
		Medallion:    med,
		QScores:      qs,
		Statistical:  stat,
		Probs:        probs,
		Ladder:       ladder,
		TierPenalty:  tierPenalty,
		ExtraReasons: extraReasons,
	})

	metrics.DecisionsTotal.WithLabelValues(string(d.Class)).Inc()
	return d, nil
}

// statistical runs the fitted model when one covers the pair, otherwise the
// neutral baseline with TeamMetrics-derived expected goals when available.
func (s *Service) statistical(ev *models.Evidence) (models.StatisticalOutput, int, []string) {
	model, hasModel := s.models.GetByLeague(ev.League)
	if hasModel {
		pred, err := model.Predict(ev.HomeTeam, ev.AwayTeam)
		if err == nil {
			return s.statOutput(pred, "poisson_glm"), 0, nil
		}
		s.logger.WithFields(logrus.Fields{
			"home": ev.HomeTeam,
			"away": ev.AwayTeam,
		}).Warn("Unknown team in fitted model, using neutral baseline")
		out := s.baselineOutput(ev)
		return out, 1, []string{"Unknown team, neutral baseline applied"}
	}
	return s.baselineOutput(ev), 0, nil
}

func (s *Service) statOutput(pred *statmodel.Prediction, source string) models.StatisticalOutput {
	return models.StatisticalOutput{
		HomeXG:        pred.LambdaHome,
		AwayXG:        pred.LambdaAway,
		Probabilities: pred.Probabilities,
		Line:          lineFromPrediction(pred),
		Source:        source,
	}
}

func lineFromPrediction(pred *statmodel.Prediction) float64 {
	probs := ahline.Normalize(pred.Probabilities.Home*100, pred.Probabilities.Away*100, pred.Probabilities.Draw*100)
	homeIsFav, favPct := probs.Favorite()
	side := models.SideHome
	if !homeIsFav {
		side = models.SideAway
	}
	return ahline.BuildLadder(favPct, side).FairLine().Line
}

func (s *Service) baselineOutput(ev *models.Evidence) models.StatisticalOutput {
	out := models.StatisticalOutput{
		Probabilities: models.Probabilities{
			Home: baselineHomePct / 100,
			Draw: baselineDrawPct / 100,
			Away: baselineAwayPct / 100,
		},
		Source: "baseline",
	}

	if s.teamData != nil {
		homeMetrics, okH := s.teamData.TeamMetrics(ev.League, ev.HomeTeam)
		awayMetrics, okA := s.teamData.TeamMetrics(ev.League, ev.AwayTeam)
		if okH && okA {
			// Venue strengths contribute expected goals and the statistical
			// line only; probabilities stay on the shifted baseline.
			pred := statmodel.PredictFromMetrics(homeMetrics, awayMetrics)
			out.Source = "team_metrics"
			out.HomeXG = pred.LambdaHome
			out.AwayXG = pred.LambdaAway
			out.Line = lineFromPrediction(pred)
			return out
		}
	}

	statProbs := ahline.Normalize(baselineHomePct, baselineAwayPct, baselineDrawPct)
	_, favPct := statProbs.Favorite()
	out.Line = ahline.BuildLadder(favPct, models.SideHome).FairLine().Line
	return out
}

// rawProbabilities produces the percentages fed into the normalizer. Only a
// fitted model's distribution is used untouched; every fallback starts from
// the baseline and is adjusted by the Q-score difference and the sentiment
// signal, draw unchanged.
func (s *Service) rawProbabilities(ev *models.Evidence, stat models.StatisticalOutput, qs *models.QScores) (float64, float64, float64) {
	if stat.Source == "poisson_glm" {
		return stat.Probabilities.Home * 100, stat.Probabilities.Away * 100, stat.Probabilities.Draw * 100
	}

	home := baselineHomePct
	away := baselineAwayPct

	shift := (qs.HomeAggregate - qs.AwayAggregate) * qShiftFactor
	home += shift
	away -= shift

	sentShift := ev.Sentiment() * sentimentShiftFactor
	home += sentShift
	away -= sentShift

	return home, away, baselineDrawPct
}

// contractViolation returns the offending field name for programmer-level
// input errors, or empty when the evidence is well-formed.
func (s *Service) contractViolation(ev *models.Evidence) string {
	if ev == nil {
		return "evidence"
	}
	if err := s.validate.Struct(ev); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return verrs[0].Field()
		}
		return "evidence"
	}
	if ev.SentimentScore != nil && (math.IsNaN(*ev.SentimentScore) || math.IsInf(*ev.SentimentScore, 0)) {
		return "sentiment_score"
	}
	if ev.SeasonStats != nil {
		sides := []struct {
			name  string
			stats *models.TeamSeasonStats
		}{
			{"home", ev.SeasonStats.Home},
			{"away", ev.SeasonStats.Away},
		}
		for _, side := range sides {
			if side.stats == nil {
				continue
			}
			checks := []struct {
				name  string
				value float64
			}{
				{"ppg", side.stats.PPG},
				{"home_ppg", side.stats.HomePPG},
				{"away_ppg", side.stats.AwayPPG},
				{"xg", side.stats.XGPerGame},
				{"xga", side.stats.XGAPerGame},
			}
			for _, check := range checks {
				if math.IsNaN(check.value) || math.IsInf(check.value, 0) {
					return fmt.Sprintf("season_stats.%s.%s", side.name, check.name)
				}
			}
		}
	}
	return ""
}

func contractVetoDecision(ev *models.Evidence, field string) *models.Decision {
	d := &models.Decision{
		Class:   models.DecisionVeto,
		Tier:    3,
		Reasons: []string{fmt.Sprintf("invalid input: %s", field)},
	}
	if ev != nil {
		d.Match = models.MatchRef{
			Home:   ev.HomeTeam,
			Away:   ev.AwayTeam,
			Date:   ev.Date,
			League: ev.League,
		}
	}
	return d
}
