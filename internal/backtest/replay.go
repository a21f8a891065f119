// Package backtest replays stored match history through the goal model and
// the ladder to measure how the fair line would have settled.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/ahline"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/features"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/statmodel"
)

// Config controls a replay run.
type Config struct {
	// MinTraining is the number of completed matches required before any
	// fixture is priced. Defaults to the model's own training floor.
	MinTraining int

	// RefitEvery refits the model after this many priced fixtures. A value
	// of 1 refits before every fixture.
	RefitEvery int
}

// DefaultConfig returns the replay defaults.
func DefaultConfig() Config {
	return Config{
		MinTraining: statmodel.MinTrainingMatches,
		RefitEvery:  10,
	}
}

// Evaluator walks the history in date order, pricing each fixture with a
// model fitted only on matches strictly before it.
type Evaluator struct {
	config Config
	logger *logrus.Logger
}

// NewEvaluator creates a replay evaluator.
func NewEvaluator(cfg Config, logger *logrus.Logger) *Evaluator {
	if cfg.MinTraining <= 0 {
		cfg.MinTraining = statmodel.MinTrainingMatches
	}
	if cfg.RefitEvery <= 0 {
		cfg.RefitEvery = 10
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Evaluator{config: cfg, logger: logger}
}

// Run replays the history and settles every priced fair line against the
// actual score. The input order does not matter; rows are sorted internally.
func (e *Evaluator) Run(ctx context.Context, history []models.MatchHistoryRow) (*Metrics, error) {
	if len(history) <= e.config.MinTraining {
		return nil, models.ErrInsufficientData
	}

	rows := features.SortHistory(history)

	metrics := &Metrics{
		StartDate: rows[0].Date,
		EndDate:   rows[len(rows)-1].Date,
	}

	var model *statmodel.Model
	sinceRefit := e.config.RefitEvery

	for i := e.config.MinTraining; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if sinceRefit >= e.config.RefitEvery {
			fitted, err := statmodel.Fit(rows[:i])
			if err != nil {
				return nil, fmt.Errorf("failed to fit replay model at row %d: %w", i, err)
			}
			model = fitted
			metrics.Refits++
			sinceRefit = 0
		}

		match := rows[i]
		metrics.Matches++

		pred, err := model.Predict(match.HomeTeam, match.AwayTeam)
		if err != nil {
			// Promoted or renamed teams enter mid-replay; skip until the
			// next refit has seen them.
			metrics.Skipped++
			continue
		}
		sinceRefit++

		settlePrediction(metrics, pred, match)
	}

	e.logger.WithFields(logrus.Fields{
		"matches": metrics.Matches,
		"priced":  metrics.Priced,
		"refits":  metrics.Refits,
	}).Info("Replay completed")

	metrics.finalize()
	return metrics, nil
}

func settlePrediction(metrics *Metrics, pred *statmodel.Prediction, match models.MatchHistoryRow) {
	probs := ahline.Normalize(pred.Probabilities.Home*100, pred.Probabilities.Away*100, pred.Probabilities.Draw*100)
	homeIsFav, favPct := probs.Favorite()
	favorite := models.SideHome
	if !homeIsFav {
		favorite = models.SideAway
	}

	fair := ahline.BuildLadder(favPct, favorite).FairLine()

	diff := float64(match.HomeGoals - match.AwayGoals)
	if fair.Side == models.SideAway {
		diff = -diff
	}

	metrics.Priced++
	metrics.record(Settle(fair.Line, diff), fair.Odds)
	metrics.addBrier(pred.Probabilities, match)
}

// ReplayRange is a convenience wrapper fitting the window between two dates.
func (e *Evaluator) ReplayRange(ctx context.Context, history []models.MatchHistoryRow, start, end time.Time) (*Metrics, error) {
	filtered := make([]models.MatchHistoryRow, 0, len(history))
	for _, m := range history {
		if m.Date.Before(start) || m.Date.After(end) {
			continue
		}
		filtered = append(filtered, m)
	}
	return e.Run(ctx, filtered)
}
