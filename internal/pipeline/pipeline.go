// Package pipeline sequences one full scrape run: resolve the target
// weekend, scrape fixtures, scrape standings, reconcile, report.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hockeyfixtures/ingestion/internal/browser"
	"hockeyfixtures/ingestion/internal/metrics"
	"hockeyfixtures/ingestion/internal/models"
	"hockeyfixtures/ingestion/internal/reconcile"
	"hockeyfixtures/ingestion/internal/schedule"
	"hockeyfixtures/ingestion/internal/scrape"

	"github.com/rs/zerolog/log"
)

// SiteScraper extracts fixture and standings records from rendered pages
type SiteScraper interface {
	Divisions() []string
	FixturesForDate(ctx context.Context, fetcher scrape.PageFetcher, date time.Time) ([]models.FixtureRecord, error)
	StandingsForDivision(ctx context.Context, fetcher scrape.PageFetcher, division string) (map[string]string, error)
}

// Reconciler merges scraped records into the persisted store
type Reconciler interface {
	Reconcile(ctx context.Context, records []models.FixtureRecord, cache reconcile.PositionCache, dates []time.Time) (int, error)
}

// SessionFactory opens a browser session; the returned func closes it
type SessionFactory func(ctx context.Context) (scrape.PageFetcher, func(), error)

// BrowserSessionFactory returns a SessionFactory backed by headless Chrome
func BrowserSessionFactory(cfg browser.Config) SessionFactory {
	return func(ctx context.Context) (scrape.PageFetcher, func(), error) {
		session, err := browser.NewSession(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return session, session.Close, nil
	}
}

// Report summarizes one scrape run
type Report struct {
	Saturday         time.Time
	Sunday           time.Time
	FixturesFound    int
	FixturesCreated  int
	DivisionsScraped int
	ShortCircuited   bool
	Elapsed          time.Duration
}

// Runner drives the scrape-and-reconcile pipeline
type Runner struct {
	scraper     SiteScraper
	reconciler  Reconciler
	newSession  SessionFactory
	seasonStart time.Time

	// now is swappable for tests
	now func() time.Time
}

// NewRunner wires a Runner from its collaborators
func NewRunner(scraper SiteScraper, reconciler Reconciler, newSession SessionFactory, seasonStart time.Time) *Runner {
	return &Runner{
		scraper:     scraper,
		reconciler:  reconciler,
		newSession:  newSession,
		seasonStart: seasonStart,
		now:         time.Now,
	}
}

// Run executes one full scrape run. Fixture scraping and standings scraping
// each own a browser session for the whole phase; the sessions never
// overlap. A weekend with no fixtures at all short-circuits before any
// standings work or store mutation.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	start := r.now()

	saturday, sunday := schedule.TargetWeekend(start, r.seasonStart)
	dates := []time.Time{saturday, sunday}

	log.Info().
		Str("saturday", saturday.Format("2006-01-02")).
		Str("sunday", sunday.Format("2006-01-02")).
		Msg("Starting weekend fixture scrape")

	records, err := r.scrapeFixtures(ctx, dates)
	if err != nil {
		metrics.RunsTotal.WithLabelValues(metrics.StatusError).Inc()
		return Report{}, err
	}

	report := Report{
		Saturday:      saturday,
		Sunday:        sunday,
		FixturesFound: len(records),
	}

	if len(records) == 0 {
		log.Warn().Msg("No fixtures found for the entire weekend, nothing to reconcile")
		report.ShortCircuited = true
		report.Elapsed = r.now().Sub(start)
		metrics.RunsTotal.WithLabelValues(metrics.StatusEmpty).Inc()
		return report, nil
	}
	metrics.FixturesScraped.Add(float64(len(records)))

	// The standings pass covers every known competition, not just those in
	// this weekend's records: a session is already warm and the tables are
	// cheap relative to browser startup
	divisions := r.scraper.Divisions()
	sort.Strings(divisions)
	cache, scraped := r.scrapeStandings(ctx, divisions)
	report.DivisionsScraped = scraped

	created, err := r.reconciler.Reconcile(ctx, records, cache, dates)
	if err != nil {
		metrics.RunsTotal.WithLabelValues(metrics.StatusError).Inc()
		return Report{}, fmt.Errorf("reconciliation failed: %w", err)
	}
	report.FixturesCreated = created
	report.Elapsed = r.now().Sub(start)

	metrics.FixturesInserted.Add(float64(created))
	metrics.RunsTotal.WithLabelValues(metrics.StatusOK).Inc()
	metrics.RunDuration.Observe(report.Elapsed.Seconds())

	log.Info().
		Int("found", report.FixturesFound).
		Int("created", report.FixturesCreated).
		Int("divisions", report.DivisionsScraped).
		Dur("elapsed", report.Elapsed).
		Msg("Scrape run complete")

	return report, nil
}

// scrapeFixtures runs phase 1: one session reused across both weekend dates.
// A fault on one date is logged and the other date still scrapes.
func (r *Runner) scrapeFixtures(ctx context.Context, dates []time.Time) ([]models.FixtureRecord, error) {
	session, closeSession, err := r.newSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures browser session: %w", err)
	}
	defer closeSession()

	var records []models.FixtureRecord
	for _, date := range dates {
		log.Info().Str("date", date.Format("2006-01-02")).Msg("Scraping fixtures")

		dayRecords, err := r.scraper.FixturesForDate(ctx, session, date)
		if err != nil {
			log.Error().Err(err).Str("date", date.Format("2006-01-02")).Msg("Fixture scrape failed for date")
			continue
		}

		log.Info().
			Str("date", date.Format("2006-01-02")).
			Int("count", len(dayRecords)).
			Msg("Fixtures found")
		records = append(records, dayRecords...)
	}

	return records, nil
}

// scrapeStandings runs phase 2: a fresh session reused across every
// division's table page. Faults or timeouts on one division leave its teams
// with the "N/A" position and never abort the others.
func (r *Runner) scrapeStandings(ctx context.Context, divisions []string) (reconcile.PositionCache, int) {
	cache := reconcile.NewPositionCache()

	session, closeSession, err := r.newSession(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open standings browser session, positions default to N/A")
		return cache, 0
	}
	defer closeSession()

	scraped := 0
	for _, division := range divisions {
		positions, err := r.scraper.StandingsForDivision(ctx, session, division)
		if err != nil {
			metrics.StandingsFailures.WithLabelValues(division).Inc()
			log.Error().Err(err).Str("division", division).Msg("Standings scrape failed for division")
			continue
		}

		cache.Set(division, positions)
		scraped++
		log.Info().
			Str("division", division).
			Int("teams", len(positions)).
			Msg("Standings cached")
	}

	return cache, scraped
}
