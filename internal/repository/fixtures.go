package repository

import (
	"context"
	"fmt"
	"time"

	"hockeyfixtures/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// FixtureRepository handles fixture database operations
type FixtureRepository struct {
	db *Database
}

// ReplaceForDates deletes every fixture on the given dates and inserts the
// provided fixtures in their place, all in one transaction so a reader never
// sees the weekend half-written. Returns the number of fixtures inserted.
func (r *FixtureRepository) ReplaceForDates(ctx context.Context, dates []time.Time, fixtures []*models.Fixture) (int, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM fixtures WHERE match_date = ANY($1)`, dates)
	if err != nil {
		return 0, fmt.Errorf("failed to delete fixtures for target dates: %w", err)
	}
	log.Debug().Int64("deleted", tag.RowsAffected()).Msg("Cleared fixtures for target dates")

	query := `
		INSERT INTO fixtures (
			division_id, home_team_id, away_team_id, match_date,
			home_score, away_score, home_position, away_position, decision
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	inserted := 0
	for _, fixture := range fixtures {
		err := tx.QueryRow(
			ctx, query,
			fixture.DivisionID, fixture.HomeTeamID, fixture.AwayTeamID, fixture.MatchDate,
			fixture.HomeScore, fixture.AwayScore,
			fixture.HomePosition, fixture.AwayPosition, string(fixture.Decision),
		).Scan(&fixture.ID, &fixture.CreatedAt, &fixture.UpdatedAt)

		if err != nil {
			return 0, fmt.Errorf("failed to insert fixture (home=%d away=%d date=%s): %w",
				fixture.HomeTeamID, fixture.AwayTeamID, fixture.MatchDate.Format("2006-01-02"), err)
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit fixture replacement: %w", err)
	}

	return inserted, nil
}

// ListByDates retrieves fixtures whose match date is one of the given dates
func (r *FixtureRepository) ListByDates(ctx context.Context, dates []time.Time) ([]*models.Fixture, error) {
	query := `
		SELECT id, division_id, home_team_id, away_team_id, match_date,
		       home_score, away_score, home_position, away_position,
		       decision, scorer_summary, created_at, updated_at
		FROM fixtures
		WHERE match_date = ANY($1)
		ORDER BY match_date, division_id, id
	`

	rows, err := r.db.Pool.Query(ctx, query, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures by dates: %w", err)
	}
	defer rows.Close()

	var fixtures []*models.Fixture
	for rows.Next() {
		var fixture models.Fixture
		err := rows.Scan(
			&fixture.ID, &fixture.DivisionID, &fixture.HomeTeamID, &fixture.AwayTeamID,
			&fixture.MatchDate, &fixture.HomeScore, &fixture.AwayScore,
			&fixture.HomePosition, &fixture.AwayPosition,
			&fixture.Decision, &fixture.ScorerSummary,
			&fixture.CreatedAt, &fixture.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixture: %w", err)
		}
		fixtures = append(fixtures, &fixture)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fixtures: %w", err)
	}

	return fixtures, nil
}

// CountByDates returns how many fixtures are stored for the given dates
func (r *FixtureRepository) CountByDates(ctx context.Context, dates []time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM fixtures WHERE match_date = ANY($1)`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, dates).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fixtures: %w", err)
	}

	return count, nil
}
