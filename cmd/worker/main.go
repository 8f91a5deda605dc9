package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"hockeyfixtures/ingestion/internal/browser"
	"hockeyfixtures/ingestion/internal/config"
	"hockeyfixtures/ingestion/internal/metrics"
	"hockeyfixtures/ingestion/internal/pipeline"
	"hockeyfixtures/ingestion/internal/reconcile"
	"hockeyfixtures/ingestion/internal/repository"
	"hockeyfixtures/ingestion/internal/runlock"
	"hockeyfixtures/ingestion/internal/scrape"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting weekend fixtures ingestion worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("club", cfg.ClubSlug).
		Str("schedule", cfg.ScrapeCron).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize database connection
	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run lock keeps cron-triggered and manual runs from interleaving
	locker := runlock.NewLocker(ctx, runlock.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer locker.Close()

	runner, err := buildRunner(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build pipeline")
	}

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	runOnce := func() {
		release, ok, err := locker.Acquire(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Run lock acquisition failed, skipping run")
			return
		}
		if !ok {
			metrics.RunsTotal.WithLabelValues(metrics.StatusLocked).Inc()
			log.Warn().Msg("Another scrape run holds the lock, skipping")
			return
		}
		defer release()

		if _, err := runner.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Scrape run failed")
		}
	}

	if cfg.RunOnStart {
		log.Info().Msg("Running initial scrape...")
		runOnce()
	}

	// Schedule recurring runs
	var scheduler *cron.Cron
	if cfg.EnableScheduler {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.ScrapeCron, runOnce); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule scrape runs")
		}
		scheduler.Start()
		log.Info().Str("schedule", cfg.ScrapeCron).Msg("Scrape runs scheduled")
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	if scheduler != nil {
		log.Info().Msg("Stopping scheduler...")
		<-scheduler.Stop().Done()
	}

	log.Info().Msg("Worker shutdown complete")
}

// buildRunner wires the scraper, reconciler and browser factory together
func buildRunner(cfg *config.Config, db *repository.Database) (*pipeline.Runner, error) {
	tables, err := cfg.DivisionTables()
	if err != nil {
		return nil, fmt.Errorf("failed to load division tables: %w", err)
	}

	scraper := scrape.NewScraper(cfg.SiteBaseURL, cfg.ClubSlug, cfg.FixtureWait, cfg.StandingsWait, tables)
	reconciler := reconcile.NewReconciler(db, tables)
	sessions := pipeline.BrowserSessionFactory(browser.Config{
		Headless:  cfg.BrowserHeadless,
		NoSandbox: cfg.BrowserNoSandbox,
	})

	return pipeline.NewRunner(scraper, reconciler, sessions, cfg.SeasonStartDate()), nil
}

// startMetricsServer starts the Prometheus metrics endpoint
func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("Metrics server listening")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server stopped")
	}
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}
