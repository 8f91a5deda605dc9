package reconcile

import (
	"context"
	"os"
	"testing"
	"time"

	"hockeyfixtures/ingestion/internal/models"
	"hockeyfixtures/ingestion/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reconciliation tests run against a real postgres with the migrations
// applied; they are skipped unless TEST_DATABASE_HOST is set.

func setupTestDB(t *testing.T) (*repository.Database, context.Context) {
	t.Helper()

	host := os.Getenv("TEST_DATABASE_HOST")
	if host == "" {
		t.Skip("TEST_DATABASE_HOST not set, skipping reconciliation integration tests")
	}

	ctx := context.Background()

	cfg := repository.Config{
		Host:     host,
		Port:     envOr("TEST_DATABASE_PORT", "5432"),
		Database: envOr("TEST_DATABASE_NAME", "fixtures_test"),
		User:     envOr("TEST_DATABASE_USER", "fixtures_user"),
		Password: envOr("TEST_DATABASE_PASSWORD", "fixtures_password"),
		SSLMode:  "disable",
	}

	db, err := repository.NewDatabase(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")

	_, err = db.Pool.Exec(ctx, `TRUNCATE fixtures, teams, divisions RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Failed to reset test database")

	return db, ctx
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func weekendDates() []time.Time {
	saturday := time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC)
	return []time.Time{saturday, saturday.AddDate(0, 0, 1)}
}

func sampleRecords(matchDate time.Time) []models.FixtureRecord {
	return []models.FixtureRecord{
		{
			Division:      "South East Women's Division 1 East",
			HomeTeam:      " Burnt Ash (Bexley) Ladies 1s ",
			AwayTeam:      "Holcombe Ladies 2s",
			HomeScoreText: "2",
			AwayScoreText: "1",
			HomeBadgeURL:  "https://cdn.example.com/ba.png",
			AwayBadgeURL:  "https://cdn.example.com/hc.png",
			MatchDate:     matchDate,
			Decision:      models.DecisionPlayed,
		},
		{
			Division:  "South East Women's Division 1 East",
			HomeTeam:  "Canterbury Ladies 4s",
			AwayTeam:  "Burnt Ash (Bexley) Ladies 2s",
			MatchDate: matchDate,
			Decision:  models.DecisionScheduled,
		},
	}
}

func TestReconciler_CreatesEntities(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer db.Close()

	dates := weekendDates()
	reconciler := NewReconciler(db, map[string]string{
		"South East Women's Division 1 East": "https://example.com/table",
	})

	cache := NewPositionCache()
	cache.Set("South East Women's Division 1 East", map[string]string{
		"Burnt Ash (Bexley) Ladies 1s": "3rd",
	})

	created, err := reconciler.Reconcile(ctx, sampleRecords(dates[0]), cache, dates)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	divisions, err := db.Divisions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, divisions, "Both records share one division")

	teams, err := db.Teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, teams)

	division, err := db.Divisions.GetByName(ctx, "South East Women's Division 1 East")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/table", division.TableURL.String,
		"A fresh division picks up its standings URL")

	fixtures, err := db.Fixtures.ListByDates(ctx, dates)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)

	played := fixtures[0]
	assert.Equal(t, models.DecisionPlayed, played.Decision)
	assert.Equal(t, int32(2), played.HomeScore.Int32)
	assert.Equal(t, "3rd", played.HomePosition.String, "Cached standings position lands on the fixture")
	assert.Equal(t, models.PositionUnknown, played.AwayPosition.String, "Uncached team defaults to N/A")

	scheduled := fixtures[1]
	assert.Equal(t, models.DecisionScheduled, scheduled.Decision)
	assert.False(t, scheduled.HomeScore.Valid, "Unplayed fixture has no score")
}

func TestReconciler_Idempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer db.Close()

	dates := weekendDates()
	reconciler := NewReconciler(db, nil)
	cache := NewPositionCache()

	first, err := reconciler.Reconcile(ctx, sampleRecords(dates[0]), cache, dates)
	require.NoError(t, err)

	// Running the same scrape output again must not duplicate anything or
	// trip a uniqueness violation
	second, err := reconciler.Reconcile(ctx, sampleRecords(dates[0]), cache, dates)
	require.NoError(t, err, "Re-reconciling the same weekend must succeed")
	assert.Equal(t, first, second, "Fixture count is stable across repeated runs")

	count, err := db.Fixtures.CountByDates(ctx, dates)
	require.NoError(t, err)
	assert.Equal(t, first, count)

	teams, err := db.Teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, teams, "Team upserts must not duplicate by whitespace variants")
}

func TestReconciler_RefreshesScoresOnRerun(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer db.Close()

	dates := weekendDates()
	reconciler := NewReconciler(db, nil)
	cache := NewPositionCache()

	records := sampleRecords(dates[0])
	_, err := reconciler.Reconcile(ctx, records, cache, dates)
	require.NoError(t, err)

	// The scheduled game gets played; a later run carries the result
	records[1].HomeScoreText = "4"
	records[1].AwayScoreText = "0"
	records[1].Decision = models.DecisionPlayed

	_, err = reconciler.Reconcile(ctx, records, cache, dates)
	require.NoError(t, err)

	fixtures, err := db.Fixtures.ListByDates(ctx, dates)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	assert.Equal(t, models.DecisionPlayed, fixtures[1].Decision)
	assert.Equal(t, int32(4), fixtures[1].HomeScore.Int32, "Scrape output is authoritative on rerun")
}
