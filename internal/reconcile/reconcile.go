// Package reconcile merges scraped fixture records into canonical persisted
// entities.
package reconcile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hockeyfixtures/ingestion/internal/models"
	"hockeyfixtures/ingestion/internal/repository"

	"github.com/rs/zerolog/log"
)

// Reconciler replaces the persisted fixtures for a target date range with
// the latest scrape output
type Reconciler struct {
	db *repository.Database

	// tables maps division names to standings URLs so newly created
	// divisions carry their lookup URL from day one
	tables map[string]string
}

// NewReconciler creates a Reconciler. tables may be nil.
func NewReconciler(db *repository.Database, tables map[string]string) *Reconciler {
	return &Reconciler{db: db, tables: tables}
}

// Reconcile resolves every record's division and teams, then replaces all
// fixtures on the target dates in a single transaction. The scrape output is
// authoritative for those dates; there is no field-level merge. Returns the
// number of fixtures inserted.
//
// Division and team upserts run before the fixture transaction: they are
// idempotent by natural key and harmless if the run later fails, while the
// delete-then-insert of fixtures must never be observable half-done.
func (r *Reconciler) Reconcile(ctx context.Context, records []models.FixtureRecord, cache PositionCache, dates []time.Time) (int, error) {
	fixtures := make([]*models.Fixture, 0, len(records))

	for _, record := range records {
		fixture, err := r.resolve(ctx, record, cache)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve fixture %q vs %q: %w", record.HomeTeam, record.AwayTeam, err)
		}
		fixtures = append(fixtures, fixture)
	}

	inserted, err := r.db.Fixtures.ReplaceForDates(ctx, dates, fixtures)
	if err != nil {
		return 0, err
	}

	log.Info().
		Int("inserted", inserted).
		Int("dates", len(dates)).
		Msg("Reconciliation complete")

	return inserted, nil
}

// resolve turns one scraped record into an insertable fixture row, creating
// or refreshing its division and team entities on the way
func (r *Reconciler) resolve(ctx context.Context, record models.FixtureRecord, cache PositionCache) (*models.Fixture, error) {
	division, err := r.db.Divisions.GetOrCreate(ctx, record.Division, r.tables[record.Division])
	if err != nil {
		return nil, err
	}

	home, err := r.upsertTeam(ctx, record.HomeTeam, record.HomeBadgeURL, division.ID)
	if err != nil {
		return nil, err
	}
	away, err := r.upsertTeam(ctx, record.AwayTeam, record.AwayBadgeURL, division.ID)
	if err != nil {
		return nil, err
	}

	return &models.Fixture{
		DivisionID:   division.ID,
		HomeTeamID:   home.ID,
		AwayTeamID:   away.ID,
		MatchDate:    record.MatchDate,
		HomeScore:    models.ParseScore(record.HomeScoreText),
		AwayScore:    models.ParseScore(record.AwayScoreText),
		HomePosition: sql.NullString{String: cache.Lookup(record.Division, record.HomeTeam), Valid: true},
		AwayPosition: sql.NullString{String: cache.Lookup(record.Division, record.AwayTeam), Valid: true},
		Decision:     record.Decision,
	}, nil
}

func (r *Reconciler) upsertTeam(ctx context.Context, name, badgeURL string, divisionID int) (*models.Team, error) {
	team := &models.Team{
		Name:       models.NormalizeTeamName(name),
		DivisionID: sql.NullInt32{Int32: int32(divisionID), Valid: true},
	}
	if badgeURL != "" {
		team.BadgeURL = sql.NullString{String: badgeURL, Valid: true}
	}

	if err := r.db.Teams.Upsert(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}
