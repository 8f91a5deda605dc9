// Package scrape navigates the source site with a browser session and
// extracts structured fixture and standings records from the rendered DOM.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hockeyfixtures/ingestion/internal/browser"
	"hockeyfixtures/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// PageFetcher renders a page and returns its HTML once waitSelector is
// visible. *browser.Session is the production implementation.
type PageFetcher interface {
	HTML(ctx context.Context, url, waitSelector string, wait time.Duration) (string, error)
}

// Scraper reads fixture and standings pages for one club
type Scraper struct {
	baseURL       string
	clubSlug      string
	fixtureWait   time.Duration
	standingsWait time.Duration
	tables        map[string]string
}

// NewScraper creates a Scraper. tables is the immutable competition name ->
// standings URL lookup; divisions missing from it simply have no standings.
func NewScraper(baseURL, clubSlug string, fixtureWait, standingsWait time.Duration, tables map[string]string) *Scraper {
	return &Scraper{
		baseURL:       baseURL,
		clubSlug:      clubSlug,
		fixtureWait:   fixtureWait,
		standingsWait: standingsWait,
		tables:        tables,
	}
}

// FixtureURL returns the club fixtures page URL for one match day
func (s *Scraper) FixtureURL(date time.Time) string {
	return fmt.Sprintf("%s/clubs/%s?match-day=%s", s.baseURL, s.clubSlug, date.Format("2006-01-02"))
}

// Divisions returns the competition names with a registered standings URL
func (s *Scraper) Divisions() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	return names
}

// FixturesForDate scrapes all match cards for one date. Days with no
// fixtures render no cards at all, so the short wait timing out means an
// empty day, not a failure.
func (s *Scraper) FixturesForDate(ctx context.Context, session PageFetcher, date time.Time) ([]models.FixtureRecord, error) {
	url := s.FixtureURL(date)

	html, err := session.HTML(ctx, url, selMatchCard, s.fixtureWait)
	if errors.Is(err, browser.ErrWaitTimeout) {
		log.Info().Str("date", date.Format("2006-01-02")).Msg("No fixtures found for date")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures page for %s: %w", date.Format("2006-01-02"), err)
	}

	return ParseFixtures(html, date)
}

// StandingsForDivision scrapes one competition's table into a normalized
// team name -> ordinal position mapping. A division with no registered URL
// or whose table never renders yields an empty mapping.
func (s *Scraper) StandingsForDivision(ctx context.Context, session PageFetcher, division string) (map[string]string, error) {
	url, ok := s.tables[division]
	if !ok || url == "" {
		log.Info().Str("division", division).Msg("No standings URL registered for division")
		return map[string]string{}, nil
	}

	html, err := session.HTML(ctx, url, selStandingsRow, s.standingsWait)
	if errors.Is(err, browser.ErrWaitTimeout) {
		log.Warn().Str("division", division).Msg("Standings table did not render in time")
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load standings for %s: %w", division, err)
	}

	return ParseStandings(html)
}
