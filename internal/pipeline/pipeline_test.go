package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"hockeyfixtures/ingestion/internal/models"
	"hockeyfixtures/ingestion/internal/reconcile"
	"hockeyfixtures/ingestion/internal/scrape"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSaturday = time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC)

// fakeFetcher satisfies scrape.PageFetcher without a browser
type fakeFetcher struct{}

func (fakeFetcher) HTML(ctx context.Context, url, waitSelector string, wait time.Duration) (string, error) {
	return "", nil
}

type fakeScraper struct {
	fixturesByDate map[string][]models.FixtureRecord
	fixtureErr     error
	standings      map[string]map[string]string
	standingsErr   map[string]error
	divisions      []string

	fixtureCalls   []time.Time
	standingsCalls []string
}

func (f *fakeScraper) Divisions() []string { return f.divisions }

func (f *fakeScraper) FixturesForDate(ctx context.Context, fetcher scrape.PageFetcher, date time.Time) ([]models.FixtureRecord, error) {
	f.fixtureCalls = append(f.fixtureCalls, date)
	if f.fixtureErr != nil {
		return nil, f.fixtureErr
	}
	return f.fixturesByDate[date.Format("2006-01-02")], nil
}

func (f *fakeScraper) StandingsForDivision(ctx context.Context, fetcher scrape.PageFetcher, division string) (map[string]string, error) {
	f.standingsCalls = append(f.standingsCalls, division)
	if err := f.standingsErr[division]; err != nil {
		return nil, err
	}
	return f.standings[division], nil
}

type fakeReconciler struct {
	created int
	err     error

	calls   int
	records []models.FixtureRecord
	cache   reconcile.PositionCache
	dates   []time.Time
}

func (f *fakeReconciler) Reconcile(ctx context.Context, records []models.FixtureRecord, cache reconcile.PositionCache, dates []time.Time) (int, error) {
	f.calls++
	f.records = records
	f.cache = cache
	f.dates = dates
	return f.created, f.err
}

type sessionTracker struct {
	opened int
	closed int
	err    error
}

func (s *sessionTracker) factory(ctx context.Context) (scrape.PageFetcher, func(), error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	s.opened++
	return fakeFetcher{}, func() { s.closed++ }, nil
}

func newTestRunner(scraper *fakeScraper, reconciler *fakeReconciler, sessions *sessionTracker) *Runner {
	r := NewRunner(scraper, reconciler, sessions.factory, testSaturday)
	// Pin the clock to the Friday before the target weekend
	r.now = func() time.Time { return testSaturday.AddDate(0, 0, -1) }
	return r
}

func record(division, home, away string) models.FixtureRecord {
	return models.FixtureRecord{
		MatchDate: testSaturday,
		Division:  division,
		HomeTeam:  home,
		AwayTeam:  away,
		Decision:  models.DecisionScheduled,
	}
}

func TestRunner_Run(t *testing.T) {
	scraper := &fakeScraper{
		fixturesByDate: map[string][]models.FixtureRecord{
			"2025-10-11": {record("Div A", "Home 1", "Away 1")},
			"2025-10-12": {record("Div B", "Home 2", "Away 2")},
		},
		divisions: []string{"Div B", "Div A"},
		standings: map[string]map[string]string{
			"Div A": {"Home 1": "1st"},
			"Div B": {"Home 2": "4th"},
		},
	}
	reconciler := &fakeReconciler{created: 2}
	sessions := &sessionTracker{}

	report, err := newTestRunner(scraper, reconciler, sessions).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testSaturday, report.Saturday)
	assert.Equal(t, testSaturday.AddDate(0, 0, 1), report.Sunday)
	assert.Equal(t, 2, report.FixturesFound)
	assert.Equal(t, 2, report.FixturesCreated)
	assert.Equal(t, 2, report.DivisionsScraped)
	assert.False(t, report.ShortCircuited)

	// One session per phase, both closed
	assert.Equal(t, 2, sessions.opened)
	assert.Equal(t, 2, sessions.closed)

	require.Equal(t, 1, reconciler.calls)
	assert.Len(t, reconciler.records, 2)
	assert.Equal(t, []time.Time{report.Saturday, report.Sunday}, reconciler.dates)
	assert.Equal(t, "1st", reconciler.cache.Lookup("Div A", "Home 1"))

	// Standings cover every known division, in sorted order
	assert.Equal(t, []string{"Div A", "Div B"}, scraper.standingsCalls)
}

func TestRunner_Run_EmptyWeekendShortCircuits(t *testing.T) {
	scraper := &fakeScraper{divisions: []string{"Div A"}}
	reconciler := &fakeReconciler{}
	sessions := &sessionTracker{}

	report, err := newTestRunner(scraper, reconciler, sessions).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.ShortCircuited)
	assert.Zero(t, report.FixturesFound)
	assert.Zero(t, reconciler.calls, "Empty weekend must not touch the store")
	assert.Empty(t, scraper.standingsCalls, "Empty weekend must not scrape standings")
	assert.Equal(t, 1, sessions.opened, "Only the fixtures session should have opened")
	assert.Equal(t, 1, sessions.closed)
}

func TestRunner_Run_DateFaultDoesNotAbortWeekend(t *testing.T) {
	// Both date scrapes fail at the scraper level: the run still completes
	// as an empty weekend rather than erroring out
	scraper := &fakeScraper{fixtureErr: errors.New("render fault"), divisions: []string{"Div A"}}
	reconciler := &fakeReconciler{}
	sessions := &sessionTracker{}

	report, err := newTestRunner(scraper, reconciler, sessions).Run(context.Background())
	require.NoError(t, err, "Per-date faults are logged, not fatal")
	assert.True(t, report.ShortCircuited)
	assert.Len(t, scraper.fixtureCalls, 2, "The second date still scrapes after the first fails")
}

func TestRunner_Run_StandingsFaultTolerated(t *testing.T) {
	scraper := &fakeScraper{
		fixturesByDate: map[string][]models.FixtureRecord{
			"2025-10-11": {record("Div A", "Home 1", "Away 1")},
		},
		divisions:    []string{"Div A", "Div B"},
		standings:    map[string]map[string]string{"Div A": {"Home 1": "1st"}},
		standingsErr: map[string]error{"Div B": errors.New("table fault")},
	}
	reconciler := &fakeReconciler{created: 1}
	sessions := &sessionTracker{}

	report, err := newTestRunner(scraper, reconciler, sessions).Run(context.Background())
	require.NoError(t, err, "A failing division never aborts the run")
	assert.Equal(t, 1, report.DivisionsScraped)
	assert.Equal(t, 1, reconciler.calls)
	assert.Equal(t, models.PositionUnknown, reconciler.cache.Lookup("Div B", "Anyone"))
}

func TestRunner_Run_SessionFailureIsFatalForFixtures(t *testing.T) {
	scraper := &fakeScraper{}
	reconciler := &fakeReconciler{}
	sessions := &sessionTracker{err: errors.New("chrome missing")}

	_, err := newTestRunner(scraper, reconciler, sessions).Run(context.Background())
	require.Error(t, err, "No browser session means no run")
	assert.Zero(t, reconciler.calls)
}

func TestRunner_Run_ReconcileFailure(t *testing.T) {
	scraper := &fakeScraper{
		fixturesByDate: map[string][]models.FixtureRecord{
			"2025-10-11": {record("Div A", "Home 1", "Away 1")},
		},
		divisions: []string{"Div A"},
	}
	reconciler := &fakeReconciler{err: errors.New("db down")}
	sessions := &sessionTracker{}

	_, err := newTestRunner(scraper, reconciler, sessions).Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "reconciliation failed")
}
