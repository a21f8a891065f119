// Package decision combines the statistical line and the Medallion line into
// the final CORE / EXP / FLIP / VETO call.
package decision

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/ahline"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// Consensus thresholds on |L_med - L_stat|.
const (
	consensusThreshold = 0.25
	minorDivThreshold  = 0.50
)

// Decision thresholds.
const (
	vetoConfidence       = 40
	coreConfidence       = 70
	insignificantTotal   = 10
	flipRScoreThreshold  = 0.25
	flipUnderdogCS       = 65.0
	tierOneConfidence    = 80
	tierTwoConfidence    = 60
)

// ConfidenceWeights is the tunable evidence-presence weight set. It is a
// calibration constant set, not a contract.
type ConfidenceWeights struct {
	NewsHeavy    int // news item count >= 10
	NewsLight    int // news item count >= 4
	HardStats    int
	Lineups      int
	APIPredicted int
	InjuryReport int
	SentimentMag int // |sentiment| > 0.2
}

// DefaultConfidenceWeights returns the calibrated defaults.
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{
		NewsHeavy:    20,
		NewsLight:    10,
		HardStats:    30,
		Lineups:      20,
		APIPredicted: 10,
		InjuryReport: 10,
		SentimentMag: 10,
	}
}

// Input bundles everything the engine consults for one fixture.
type Input struct {
	Evidence    *models.Evidence
	Medallion   *models.MedallionResult
	QScores     *models.QScores
	Statistical models.StatisticalOutput
	Probs       ahline.NormalizedProbs
	Ladder      *ahline.Ladder

	// TierPenalty downgrades the confidence tier, e.g. after an
	// unknown-team fallback.
	TierPenalty  int
	ExtraReasons []string
}

// Engine applies the fixed-order decision rule.
type Engine struct {
	weights ConfidenceWeights
	logger  *logrus.Logger
}

// NewEngine creates a decision engine.
func NewEngine(weights ConfidenceWeights, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{weights: weights, logger: logger}
}

// ConfidenceScore sums the evidence-presence checks, capped at 100.
func (e *Engine) ConfidenceScore(ev *models.Evidence) (int, []string) {
	score := 0
	var reasons []string

	switch {
	case ev.NewsItemCount >= 10:
		score += e.weights.NewsHeavy
		reasons = append(reasons, "Broad News Coverage")
	case ev.NewsItemCount >= 4:
		score += e.weights.NewsLight
		reasons = append(reasons, "Partial News Coverage")
	}
	if ev.HasHardStats() {
		score += e.weights.HardStats
		reasons = append(reasons, "Hard Stats Available")
	}
	if ev.Lineups != nil && ev.Lineups.Confirmed {
		score += e.weights.Lineups
		reasons = append(reasons, "Confirmed Lineups")
	}
	if ev.APIPredictions != nil {
		score += e.weights.APIPredicted
		reasons = append(reasons, "API Predictions Present")
	}
	if ev.Injuries != nil {
		score += e.weights.InjuryReport
		reasons = append(reasons, "Injury Report Present")
	}
	if math.Abs(ev.Sentiment()) > 0.2 {
		score += e.weights.SentimentMag
		reasons = append(reasons, "Clear Sentiment Signal")
	}

	if score > 100 {
		score = 100
	}
	return score, reasons
}

// ClassifyConsensus buckets the line divergence.
func ClassifyConsensus(medLine, statLine float64) models.Consensus {
	diff := math.Abs(medLine - statLine)
	switch {
	case diff <= consensusThreshold:
		return models.ConsensusAgree
	case diff <= minorDivThreshold:
		return models.ConsensusMinorDiv
	default:
		return models.ConsensusMajorDiv
	}
}

// Decide produces the final Decision. Identical inputs always produce the
// same output.
func (e *Engine) Decide(in Input) *models.Decision {
	confidence, reasons := e.ConfidenceScore(in.Evidence)
	reasons = append(reasons, in.ExtraReasons...)

	fair := in.Ladder.FairLine()
	consensus := ClassifyConsensus(in.Medallion.RecommendedLine, in.Statistical.Line)

	homeIsFav, favPct := in.Probs.Favorite()
	favoriteSide := models.SideHome
	favoriteTeam := in.Evidence.HomeTeam
	underdogTeam := in.Evidence.AwayTeam
	if !homeIsFav {
		favoriteSide = models.SideAway
		favoriteTeam = in.Evidence.AwayTeam
		underdogTeam = in.Evidence.HomeTeam
	}

	d := &models.Decision{
		Match: models.MatchRef{
			Home:   in.Evidence.HomeTeam,
			Away:   in.Evidence.AwayTeam,
			Date:   in.Evidence.Date,
			League: in.Evidence.League,
		},
		Probabilities: models.Probabilities{
			Home: in.Probs.HomePct / 100,
			Draw: in.Probs.DrawPct / 100,
			Away: in.Probs.AwayPct / 100,
		},
		FairLine:     fair.Line,
		FairOdds:     fair.Odds,
		FavoriteSide: favoriteSide,
		Confidence:   confidence,
		CSFinal:      confidence,
		Consensus:    consensus,
		Medallion:    *in.Medallion,
		Statistical:  in.Statistical,
		QScores:      *in.QScores,
	}

	favQ, dogQ := in.QScores.HomeAggregate, in.QScores.AwayAggregate
	if !homeIsFav {
		favQ, dogQ = dogQ, favQ
	}
	d.RScore = rScore(favQ, dogQ)

	// Rule 1: VETO, first match wins.
	if vetoReason := e.vetoReason(in, confidence); vetoReason != "" {
		d.Class = models.DecisionVeto
		d.Reasons = append(reasons, vetoReason)
		d.YudorAHTeam = ""
		d.Tier = tierFromConfidence(confidence, in.TierPenalty)
		e.logDecision(d, favPct)
		return d
	}

	// Rule 2: FLIP to the underdog on a strong reverse signal. A pick'em
	// line never flips.
	if d.RScore >= flipRScoreThreshold && dogQ >= flipUnderdogCS && fair.Line != 0 {
		d.Class = models.DecisionFlip
		d.FairLine = math.Abs(fair.Line)
		if odds := in.Ladder.OddsAt(d.FairLine); !math.IsNaN(odds) {
			d.FairOdds = odds
		}
		d.YudorAHTeam = underdogTeam
		d.Reasons = append(reasons, "Underdog Advantage Signal")
		d.Tier = tierFromConfidence(confidence, in.TierPenalty)
		e.logDecision(d, favPct)
		return d
	}

	// Rules 3 and 4: CORE on consensus with confidence, EXP otherwise.
	if consensus == models.ConsensusAgree && confidence >= coreConfidence {
		d.Class = models.DecisionCore
		reasons = append(reasons, "Model Consensus")
	} else {
		d.Class = models.DecisionExp
		if consensus != models.ConsensusAgree {
			reasons = append(reasons, "Minor Model Divergence")
		} else {
			reasons = append(reasons, "Lower Confidence Signal")
		}
	}
	d.Reasons = reasons
	d.YudorAHTeam = resolveSide(d.FairLine, favoriteTeam, underdogTeam)
	d.Tier = tierFromConfidence(confidence, in.TierPenalty)
	e.logDecision(d, favPct)
	return d
}

func (e *Engine) vetoReason(in Input, confidence int) string {
	if confidence < vetoConfidence {
		return "Confidence below veto threshold"
	}
	if abs(in.Medallion.HomeTotal) < insignificantTotal && abs(in.Medallion.AwayTotal) < insignificantTotal {
		return "Insignificant match signal"
	}
	if ClassifyConsensus(in.Medallion.RecommendedLine, in.Statistical.Line) == models.ConsensusMajorDiv {
		return "Models disagree significantly"
	}
	if !in.Evidence.HasHardStats() && !in.Evidence.HasNews() {
		return "Critical evidence missing"
	}
	return ""
}

// resolveSide applies the Yudor AH side rule: negative handicap points at the
// favorite, positive at the underdog, and a pick'em stays with the favorite.
func resolveSide(fairLine float64, favoriteTeam, underdogTeam string) string {
	if fairLine > 0 {
		return underdogTeam
	}
	return favoriteTeam
}

func rScore(favQ, dogQ float64) float64 {
	r := (dogQ - favQ) / 100
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func tierFromConfidence(confidence, penalty int) int {
	tier := 3
	switch {
	case confidence >= tierOneConfidence:
		tier = 1
	case confidence >= tierTwoConfidence:
		tier = 2
	}
	tier += penalty
	if tier > 3 {
		tier = 3
	}
	if tier < 1 {
		tier = 1
	}
	return tier
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (e *Engine) logDecision(d *models.Decision, favPct float64) {
	e.logger.WithFields(logrus.Fields{
		"home":       d.Match.Home,
		"away":       d.Match.Away,
		"decision":   d.Class,
		"fair_line":  d.FairLine,
		"fair_odds":  d.FairOdds,
		"confidence": d.Confidence,
		"fav_pct":    favPct,
	}).Info("Decision computed")
}
