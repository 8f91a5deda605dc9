package models

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Decision is the lifecycle state of a fixture as shown on the site
type Decision string

const (
	DecisionScheduled Decision = "Scheduled"
	DecisionPlayed    Decision = "Played"
	DecisionWalkover  Decision = "Walkover"
	DecisionPostponed Decision = "Postponed"
	DecisionBye       Decision = "Bye"
)

// ParseDecision normalizes an on-page status label to a Decision.
// Returns false when the label does not name a known state.
func ParseDecision(label string) (Decision, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "scheduled":
		return DecisionScheduled, true
	case "played":
		return DecisionPlayed, true
	case "walkover":
		return DecisionWalkover, true
	case "postponed":
		return DecisionPostponed, true
	case "bye":
		return DecisionBye, true
	}
	return "", false
}

// PositionUnknown is stored when a team has no entry in its division's
// standings table.
const PositionUnknown = "N/A"

// Fixture represents a single scheduled or completed match between two teams
type Fixture struct {
	ID           int            `db:"id"`
	DivisionID   int            `db:"division_id"`
	HomeTeamID   int            `db:"home_team_id"`
	AwayTeamID   int            `db:"away_team_id"`
	MatchDate    time.Time      `db:"match_date"`
	HomeScore    sql.NullInt32  `db:"home_score"`
	AwayScore    sql.NullInt32  `db:"away_score"`
	HomePosition sql.NullString `db:"home_position"`
	AwayPosition sql.NullString `db:"away_position"`
	Decision     Decision       `db:"decision"`

	// ScorerSummary is owned by the results-editing collaborator and is
	// never written by the scrape pipeline.
	ScorerSummary sql.NullString `db:"scorer_summary"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FixtureRecord is a fixture as scraped from one match card, before any
// identity resolution. Score fields keep the raw on-page text; parsing to
// integers happens during reconciliation.
type FixtureRecord struct {
	MatchDate     time.Time
	Division      string
	HomeTeam      string
	HomeBadgeURL  string
	HomeScoreText string
	AwayTeam      string
	AwayBadgeURL  string
	AwayScoreText string
	Decision      Decision
}

// ParseScore converts a raw score cell to a nullable integer.
// Empty or non-numeric text (unplayed fixtures, "P", "-") is NULL.
func ParseScore(text string) sql.NullInt32 {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(n), Valid: true}
}

// DeriveDecision applies the extraction precedence: an explicit status label
// wins, otherwise a recorded numeric home score means the match was played.
func DeriveDecision(statusLabel, homeScoreText string) Decision {
	if d, ok := ParseDecision(statusLabel); ok {
		return d
	}
	if ParseScore(homeScoreText).Valid {
		return DecisionPlayed
	}
	return DecisionScheduled
}
