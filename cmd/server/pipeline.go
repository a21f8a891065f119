package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/config"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/datasource"
	applogger "github.com/erikubingf-del/yudor-betting-system-sub000/internal/logger"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/metrics"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/pricing"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/repository"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/statmodel"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/stream"
)

// pipeline wires the scheduled jobs: fetch upcoming fixtures, price them,
// persist and broadcast the decisions, and periodically refit the per-league
// models from stored history.
type pipeline struct {
	cfg      *config.Config
	repos    *repository.Repositories
	fixtures datasource.FixtureProvider
	evidence datasource.EvidenceProvider
	pricer   *pricing.Service
	hub      *stream.Hub
	audit    *applogger.AuditLogger
	logger   *logrus.Logger
}

func newPipeline(
	cfg *config.Config,
	repos *repository.Repositories,
	fixtures datasource.FixtureProvider,
	evidence datasource.EvidenceProvider,
	pricer *pricing.Service,
	hub *stream.Hub,
	audit *applogger.AuditLogger,
	logger *logrus.Logger,
) *pipeline {
	return &pipeline{
		cfg:      cfg,
		repos:    repos,
		fixtures: fixtures,
		evidence: evidence,
		pricer:   pricer,
		hub:      hub,
		audit:    audit,
		logger:   logger,
	}
}

// PriceUpcoming prices every fixture inside the lookahead window. Failures
// on a single fixture or league are logged and skipped so one bad upstream
// response never aborts the run.
func (p *pipeline) PriceUpcoming(ctx context.Context) error {
	from := time.Now().UTC()
	to := from.Add(time.Duration(p.cfg.Scheduler.LookaheadHours) * time.Hour)

	for _, league := range p.cfg.Pricing.Leagues {
		if err := ctx.Err(); err != nil {
			return err
		}

		fixtures, err := p.fixtures.FetchFixtures(ctx, league, from, to)
		if err != nil {
			p.audit.LogDataSourceFailure(p.fixtures.Name(), "fetch_fixtures", err.Error())
			p.logger.WithError(err).WithField("league", league).Error("Failed to fetch fixtures")
			continue
		}

		for _, fixture := range fixtures {
			if err := p.priceFixture(ctx, fixture); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *pipeline) priceFixture(ctx context.Context, fixture *models.Fixture) error {
	ev, err := p.evidence.FetchEvidence(ctx, fixture)
	if err != nil {
		p.audit.LogDataSourceFailure(p.evidence.Name(), "fetch_evidence", err.Error())
		p.logger.WithError(err).WithFields(logrus.Fields{
			"home": fixture.HomeTeam,
			"away": fixture.AwayTeam,
		}).Error("Failed to fetch evidence, skipping fixture")
		return nil
	}

	d, err := p.pricer.Price(ctx, ev)
	if err != nil {
		// Price only errors on context cancellation
		return err
	}

	record := &models.DecisionRecord{
		ID:        uuid.New(),
		Decision:  *d,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.repos.Decision.Create(ctx, record); err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"home": d.Match.Home,
			"away": d.Match.Away,
		}).Error("Failed to persist decision")
	}

	p.audit.LogDecisionPublished(
		record.ID.String(),
		d.Match.Home, d.Match.Away, d.Match.League,
		string(d.Class), d.YudorAHTeam,
		d.FairLine, d.FairOdds, d.Confidence,
		record.CreatedAt,
	)
	metrics.RecordFixturePriced()
	metrics.UpdateLastConfidence(d.Match.League, float64(d.Confidence))
	p.hub.BroadcastDecision(d)
	return nil
}

// RefitModels refits one model per configured league from the stored history
// and swaps it into the cache. Leagues with too little history keep their
// previous model until it expires.
func (p *pipeline) RefitModels(ctx context.Context) error {
	cutoff := time.Now().UTC()

	for _, league := range p.cfg.Pricing.Leagues {
		if err := ctx.Err(); err != nil {
			return err
		}

		rows, err := p.repos.Match.GetByLeagueBefore(ctx, league, cutoff)
		if err != nil {
			p.logger.WithError(err).WithField("league", league).Error("Failed to load history for refit")
			metrics.RecordModelFitFailure()
			continue
		}

		history := derefRows(rows)
		if len(history) < p.cfg.Pricing.MinTrainingMatches {
			p.audit.LogModelFitFailure(league, "", len(history), "insufficient history")
			metrics.RecordModelFitFailure()
			continue
		}

		start := time.Now()
		model, err := statmodel.Fit(history)
		if err != nil {
			p.audit.LogModelFitFailure(league, "", len(history), err.Error())
			metrics.RecordModelFitFailure()
			continue
		}
		model.League = league
		elapsed := time.Since(start).Seconds()

		p.pricer.Models().Set(pricing.ModelKey{
			League: league,
			Cutoff: cutoff.Format("2006-01-02"),
		}, model)
		metrics.RecordModelFit(elapsed)
		metrics.UpdateCachedModels(float64(p.pricer.Models().Len()))
		p.audit.LogModelFit(league, "", model.Matches, elapsed)
	}
	return nil
}

// leagueMetricsSource backs the pricing fallback with venue-split strengths
// computed from the stored history.
type leagueMetricsSource struct {
	matches repository.MatchRepository
}

func newLeagueMetricsSource(matches repository.MatchRepository) *leagueMetricsSource {
	return &leagueMetricsSource{matches: matches}
}

// TeamMetrics computes the team's venue-split strengths from the league
// history. Returns false when the team has no completed matches on record.
func (s *leagueMetricsSource) TeamMetrics(league, team string) (statmodel.TeamMetrics, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := s.matches.GetByLeagueBefore(ctx, league, time.Now().UTC())
	if err != nil || len(rows) == 0 {
		return statmodel.TeamMetrics{}, false
	}

	history := derefRows(rows)
	seen := false
	for _, m := range history {
		if m.HomeTeam == team || m.AwayTeam == team {
			seen = true
			break
		}
	}
	if !seen {
		return statmodel.TeamMetrics{}, false
	}
	return statmodel.MetricsFromHistory(history, team), true
}

func derefRows(rows []*models.MatchHistoryRow) []models.MatchHistoryRow {
	history := make([]models.MatchHistoryRow, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			history = append(history, *r)
		}
	}
	return history
}
