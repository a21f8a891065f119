// Package main provides the one-shot pricing CLI: evidence JSON in,
// decision JSON out.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/datasource"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/pricing"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/statmodel"
)

func main() {
	var (
		evidencePath = flag.String("evidence", "-", "Path to evidence JSON, '-' for stdin")
		historyPath  = flag.String("history", "", "Optional history CSV used to fit a model before pricing")
		league       = flag.String("league", "", "League filter for the history CSV")
		season       = flag.String("season", "", "Season filter for the history CSV")
		outputPath   = flag.String("output", "-", "Path for the decision JSON, '-' for stdout")
		pretty       = flag.Bool("pretty", false, "Indent the decision JSON")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	ev := loadEvidence(*evidencePath, logger)
	svc := pricing.NewService(pricing.NewModelCache(0), nil, logger)

	if *historyPath != "" {
		fitFromCSV(ctx, svc, *historyPath, *league, *season, logger)
	}

	decision, err := svc.Price(ctx, ev)
	if err != nil {
		logger.Fatalf("Pricing failed: %v", err)
	}

	writeDecision(decision, *outputPath, *pretty, logger)
	logger.WithFields(logrus.Fields{
		"home":     decision.Match.Home,
		"away":     decision.Match.Away,
		"decision": decision.Class,
		"line":     decision.FairLine,
	}).Info("Fixture priced")
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)
	return logger
}

func loadEvidence(path string, logger *logrus.Logger) *models.Evidence {
	var reader io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			logger.Fatalf("Failed to open evidence file: %v", err)
		}
		defer file.Close()
		reader = file
	}

	var ev models.Evidence
	if err := json.NewDecoder(reader).Decode(&ev); err != nil {
		logger.Fatalf("Failed to decode evidence JSON: %v", err)
	}
	return &ev
}

// fitFromCSV fits a league model from the CSV history and caches it so the
// pricing run uses the fitted distribution instead of the neutral baseline.
func fitFromCSV(ctx context.Context, svc *pricing.Service, path, league, season string, logger *logrus.Logger) {
	provider := datasource.NewCSVHistoryProvider(path, true, log.New(logger.Writer(), "csv: ", 0))

	rows, err := provider.FetchMatches(ctx, league, season)
	if err != nil {
		logger.Fatalf("Failed to read history CSV: %v", err)
	}

	history := make([]models.MatchHistoryRow, 0, len(rows))
	for _, r := range rows {
		history = append(history, *r)
	}

	model, err := statmodel.Fit(history)
	if err != nil {
		logger.WithError(err).WithField("matches", len(history)).Warn("Model fit failed, pricing with the neutral baseline")
		return
	}
	model.League = league
	model.Season = season

	svc.Models().Set(pricing.ModelKey{
		League: league,
		Season: season,
		Cutoff: time.Now().UTC().Format("2006-01-02"),
	}, model)
	logger.WithFields(logrus.Fields{
		"teams":   model.Teams(),
		"matches": model.Matches,
	}).Info("Model fitted from CSV history")
}

func writeDecision(decision *models.Decision, path string, pretty bool, logger *logrus.Logger) {
	var writer io.Writer = os.Stdout
	if path != "-" {
		file, err := os.Create(path)
		if err != nil {
			logger.Fatalf("Failed to create output file: %v", err)
		}
		defer file.Close()
		writer = file
	}

	encoder := json.NewEncoder(writer)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(decision); err != nil {
		logger.Fatalf("Failed to encode decision: %v", err)
	}
}
