package models

import (
	"database/sql"
	"strings"
	"time"
)

// Team represents a club side appearing on either end of a fixture.
// Name is the stable natural key; badge URL is refreshed on every scrape.
type Team struct {
	ID         int            `db:"id"`
	Name       string         `db:"name"`
	BadgeURL   sql.NullString `db:"badge_url"`
	DivisionID sql.NullInt32  `db:"division_id"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// NormalizeTeamName trims the surrounding whitespace the site sprinkles
// around badge labels so the same side always maps to one row.
func NormalizeTeamName(name string) string {
	return strings.TrimSpace(name)
}
