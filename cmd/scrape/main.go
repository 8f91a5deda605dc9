// Command scrape runs one scrape-and-reconcile pass for the upcoming
// weekend and exits. It takes the same run lock as the worker so a manual
// run never overlaps a scheduled one.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"hockeyfixtures/ingestion/internal/browser"
	"hockeyfixtures/ingestion/internal/config"
	"hockeyfixtures/ingestion/internal/pipeline"
	"hockeyfixtures/ingestion/internal/reconcile"
	"hockeyfixtures/ingestion/internal/repository"
	"hockeyfixtures/ingestion/internal/runlock"
	"hockeyfixtures/ingestion/internal/scrape"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	ctx := context.Background()
	cfg := config.MustLoad()

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

	// Validate database connectivity before launching a browser
	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	locker := runlock.NewLocker(ctx, runlock.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer locker.Close()

	release, ok, err := locker.Acquire(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Run lock acquisition failed")
	}
	if !ok {
		log.Warn().Msg("Another scrape run is in progress. Exiting.")
		return
	}
	defer release()

	tables, err := cfg.DivisionTables()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load division tables")
	}

	scraper := scrape.NewScraper(cfg.SiteBaseURL, cfg.ClubSlug, cfg.FixtureWait, cfg.StandingsWait, tables)
	reconciler := reconcile.NewReconciler(db, tables)
	sessions := pipeline.BrowserSessionFactory(browser.Config{
		Headless:  cfg.BrowserHeadless,
		NoSandbox: cfg.BrowserNoSandbox,
	})

	runner := pipeline.NewRunner(scraper, reconciler, sessions, cfg.SeasonStartDate())

	report, err := runner.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Scrape run failed")
	}

	if report.ShortCircuited {
		log.Warn().Msg("No fixtures found for the weekend. Nothing saved.")
		return
	}

	log.Info().Msg(fmt.Sprintf(
		"Scrape complete! Created %d fixtures in %.2fs.",
		report.FixturesCreated, report.Elapsed.Seconds(),
	))
}
