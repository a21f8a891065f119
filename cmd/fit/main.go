// Package main provides the model fitting and history ingestion CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/backtest"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/config"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/database"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/datasource"
	applogger "github.com/erikubingf-del/yudor-betting-system-sub000/internal/logger"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/repository"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/statmodel"
)

var (
	configFile string
	csvPath    string
	league     string
	season     string
	refitEvery int

	appLog *logrus.Logger
	audit  *applogger.AuditLogger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	ingestCmd.Flags().StringVar(&csvPath, "csv", "", "Path to the history CSV file")
	ingestCmd.Flags().StringVar(&league, "league", "", "League to ingest (empty for all rows)")
	ingestCmd.Flags().StringVar(&season, "season", "", "Season to ingest (empty for all rows)")
	_ = ingestCmd.MarkFlagRequired("csv")
	statusCmd.Flags().StringVar(&season, "season", "", "Season to report counts for")
	_ = statusCmd.MarkFlagRequired("season")
	evaluateCmd.Flags().StringVar(&league, "league", "", "League to replay")
	evaluateCmd.Flags().IntVar(&refitEvery, "refit-every", 10, "Refit the model after this many priced fixtures")
	_ = evaluateCmd.MarkFlagRequired("league")
}

var rootCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit goal models from stored match history",
	Long:  `Ingest historical match results and fit the per-league Poisson goal models used for pricing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load match history from a CSV file into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return ingestHistory(context.Background())
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fit a model for every configured league",
	RunE: func(cmd *cobra.Command, args []string) error {
		return fitAllLeagues(context.Background())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report database health and stored history counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportStatus(context.Background())
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Replay stored history and settle the fair line against actual scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		return evaluateLeague(context.Background())
	},
}

func main() {
	rootCmd.AddCommand(ingestCmd, runCmd, statusCmd, evaluateCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupDependencies() error {
	var err error

	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	audit = applogger.NewAuditLogger(appLog)

	db, err = database.NewDB(context.Background(), &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	return nil
}

func ingestHistory(ctx context.Context) error {
	provider := datasource.NewCSVHistoryProvider(csvPath, true, log.New(appLog.Writer(), "csv: ", 0))

	rows, err := provider.FetchMatches(ctx, league, season)
	if err != nil {
		return fmt.Errorf("failed to read history CSV: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("No matching rows in CSV")
		return nil
	}

	if err := repos.Match.InsertBatch(ctx, rows); err != nil {
		return fmt.Errorf("failed to insert history: %w", err)
	}

	appLog.WithFields(logrus.Fields{
		"rows":   len(rows),
		"league": league,
		"season": season,
	}).Info("History ingested")
	fmt.Printf("Ingested %d matches\n", len(rows))
	return nil
}

func fitAllLeagues(ctx context.Context) error {
	cutoff := time.Now().UTC()
	failures := 0

	for _, lg := range cfg.Pricing.Leagues {
		rows, err := repos.Match.GetByLeagueBefore(ctx, lg, cutoff)
		if err != nil {
			return fmt.Errorf("failed to load history for %s: %w", lg, err)
		}

		history := make([]models.MatchHistoryRow, 0, len(rows))
		for _, r := range rows {
			history = append(history, *r)
		}

		start := time.Now()
		model, err := statmodel.Fit(history)
		if err != nil {
			audit.LogModelFitFailure(lg, "", len(history), err.Error())
			fmt.Printf("x %s: fit failed with %d matches: %v\n", lg, len(history), err)
			failures++
			continue
		}
		model.League = lg
		elapsed := time.Since(start).Seconds()

		audit.LogModelFit(lg, "", model.Matches, elapsed)
		fmt.Printf("+ %s: %d teams from %d matches, home advantage %.3f\n",
			lg, model.Teams(), model.Matches, model.HomeAdvantage)
	}

	if failures > 0 {
		return fmt.Errorf("%d league(s) failed to fit", failures)
	}
	return nil
}

func evaluateLeague(ctx context.Context) error {
	rows, err := repos.Match.GetByLeagueBefore(ctx, league, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to load history for %s: %w", league, err)
	}

	history := make([]models.MatchHistoryRow, 0, len(rows))
	for _, r := range rows {
		history = append(history, *r)
	}

	evaluator := backtest.NewEvaluator(backtest.Config{
		MinTraining: cfg.Pricing.MinTrainingMatches,
		RefitEvery:  refitEvery,
	}, appLog)

	metrics, err := evaluator.Run(ctx, history)
	if err != nil {
		return fmt.Errorf("failed to replay %s: %w", league, err)
	}

	fmt.Printf("Replayed %s from %s to %s\n", league,
		metrics.StartDate.Format("2006-01-02"), metrics.EndDate.Format("2006-01-02"))
	fmt.Printf("  priced %d of %d fixtures across %d refits (%d skipped)\n",
		metrics.Priced, metrics.Matches, metrics.Refits, metrics.Skipped)
	fmt.Printf("  W %d / HW %d / P %d / HL %d / L %d\n",
		metrics.Wins, metrics.HalfWins, metrics.Pushes, metrics.HalfLosses, metrics.Losses)
	fmt.Printf("  hit rate %.1f%%, flat-stake return %+.2f units, Brier %.4f\n",
		metrics.HitRate*100, metrics.UnitReturn, metrics.BrierScore)
	return nil
}

func reportStatus(ctx context.Context) error {
	if err := db.HealthCheck(ctx); err != nil {
		fmt.Printf("x Database is unavailable: %v\n", err)
		return err
	}
	fmt.Println("+ Database is healthy")

	for _, lg := range cfg.Pricing.Leagues {
		count, err := repos.Match.CountByLeagueSeason(ctx, lg, season)
		if err != nil {
			return fmt.Errorf("failed to count history for %s: %w", lg, err)
		}
		marker := "+"
		if count < cfg.Pricing.MinTrainingMatches {
			marker = "x"
		}
		fmt.Printf("%s %s: %d matches stored (minimum %d)\n", marker, lg, count, cfg.Pricing.MinTrainingMatches)
	}
	return nil
}
