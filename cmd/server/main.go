// Package main provides the entry point for the pricing server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/config"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/database"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/datasource"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/health"
	applogger "github.com/erikubingf-del/yudor-betting-system-sub000/internal/logger"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/metrics"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/pricing"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/repository"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/scheduler"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/stream"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to config file")
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	appLog := applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Yudor pricing server starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.InitRegistry()
	metricsServer := startMetricsServer(cfg, appLog)

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	dsLogger := log.New(appLog.Writer(), "datasource: ", 0)
	factory := datasource.NewFactory(cfg, dsLogger)
	footballData, err := factory.NewFootballData()
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create football data client")
	}

	modelCache := pricing.NewModelCache(cfg.ModelCacheTTL())
	teamData := newLeagueMetricsSource(repos.Match)
	pricer := pricing.NewService(modelCache, teamData, appLog)

	hub := stream.NewHub(appLog)
	go hub.Run()
	streamServer := startStreamServer(cfg, hub, appLog)

	pipe := newPipeline(cfg, repos, footballData, footballData, pricer, hub, applogger.NewAuditLogger(appLog), appLog)

	sched := scheduler.NewScheduler(pipe, appLog)
	if cfg.Scheduler.Enabled {
		if err := sched.SchedulePricing(cfg.Scheduler.PricingCron); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule pricing job")
		}
		if err := sched.ScheduleRefit(cfg.Scheduler.RefitCron); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule refit job")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		appLog.WithField("next_run", sched.GetNextRun()).Info("Scheduler started")
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Server.HealthPort),
		Logger:      appLog,
		DB:          db,
		Models:      modelCache,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Warm the model cache before accepting traffic
	go func() {
		warmCtx, warmCancel := context.WithTimeout(ctx, 10*time.Minute)
		defer warmCancel()
		if err := pipe.RefitModels(warmCtx); err != nil {
			appLog.WithError(err).Warn("Initial model fit incomplete, pricing falls back to baselines")
		}
		healthServer.SetReady(true)
		appLog.WithField("cached_models", modelCache.Len()).Info("Server ready")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	shutdownHTTPServer(streamServer, appLog)
	shutdownHTTPServer(metricsServer, appLog)
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error stopping health server")
	}
	cancel()

	appLog.Info("Yudor pricing server shut down")
}

func loadConfigWithSecrets(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func startMetricsServer(cfg *config.Config, logger *logrus.Logger) *http.Server {
	if !cfg.Metrics.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port": cfg.Metrics.Port,
			"path": cfg.Metrics.Path,
		}).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Metrics server error")
		}
	}()
	return server
}

func startStreamServer(cfg *config.Config, hub *stream.Hub, logger *logrus.Logger) *http.Server {
	if !cfg.Server.StreamEnabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Server.StreamPath, hub.ServeWS)
	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.StreamPort),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port": cfg.Server.StreamPort,
			"path": cfg.Server.StreamPath,
		}).Info("Decision stream server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Decision stream server error")
		}
	}()
	return server
}

func shutdownHTTPServer(server *http.Server, logger *logrus.Logger) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown error")
	}
}
