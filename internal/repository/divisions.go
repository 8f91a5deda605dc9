package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hockeyfixtures/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// DivisionRepository handles division database operations
type DivisionRepository struct {
	db *Database
}

// GetOrCreate fetches a division by name, creating it on first sight.
// A non-empty tableURL is recorded; an empty one never clobbers a URL
// already on record.
func (r *DivisionRepository) GetOrCreate(ctx context.Context, name, tableURL string) (*models.Division, error) {
	query := `
		INSERT INTO divisions (name, table_url)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET
			table_url = COALESCE(EXCLUDED.table_url, divisions.table_url),
			updated_at = NOW()
		RETURNING id, name, table_url, created_at, updated_at
	`

	var url sql.NullString
	if tableURL != "" {
		url = sql.NullString{String: tableURL, Valid: true}
	}

	var division models.Division
	err := r.db.Pool.QueryRow(ctx, query, name, url).Scan(
		&division.ID, &division.Name, &division.TableURL,
		&division.CreatedAt, &division.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create division %q: %w", name, err)
	}

	log.Debug().
		Int("id", division.ID).
		Str("name", division.Name).
		Msg("Division resolved")

	return &division, nil
}

// GetByName retrieves a division by its name
func (r *DivisionRepository) GetByName(ctx context.Context, name string) (*models.Division, error) {
	query := `
		SELECT id, name, table_url, created_at, updated_at
		FROM divisions
		WHERE name = $1
	`

	var division models.Division
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(
		&division.ID, &division.Name, &division.TableURL,
		&division.CreatedAt, &division.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("division not found: name=%s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get division: %w", err)
	}

	return &division, nil
}

// List retrieves all divisions ordered by name
func (r *DivisionRepository) List(ctx context.Context) ([]*models.Division, error) {
	query := `
		SELECT id, name, table_url, created_at, updated_at
		FROM divisions
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list divisions: %w", err)
	}
	defer rows.Close()

	var divisions []*models.Division
	for rows.Next() {
		var division models.Division
		err := rows.Scan(
			&division.ID, &division.Name, &division.TableURL,
			&division.CreatedAt, &division.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan division: %w", err)
		}
		divisions = append(divisions, &division)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating divisions: %w", err)
	}

	return divisions, nil
}

// Count returns the total number of divisions
func (r *DivisionRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM divisions`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count divisions: %w", err)
	}

	return count, nil
}
