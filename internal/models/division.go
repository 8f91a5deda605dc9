package models

import (
	"database/sql"
	"time"
)

// Division represents a named competition grouping fixtures and standings
type Division struct {
	ID        int            `db:"id"`
	Name      string         `db:"name"`
	TableURL  sql.NullString `db:"table_url"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}
