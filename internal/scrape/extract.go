package scrape

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hockeyfixtures/ingestion/internal/metrics"
	"hockeyfixtures/ingestion/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// CSS selectors for the club fixtures page and competition standings pages.
// The markup is third-party and unstable; keeping every selector here makes
// the next breakage a one-file fix.
const (
	selMatchCard      = ".c-match-detail-card__container"
	selFixtureBody    = ".c-fixture__body"
	selHomeBadge      = ".c-fixture__badge-before"
	selAwayBadge      = ".c-fixture__badge-after"
	selBadgeLabel     = ".c-badge__label"
	selBadgeImage     = ".c-badge__image"
	selScoreItem      = ".c-score__item"
	selFixtureStatus  = ".c-fixture__status"
	selStandingsRow   = ".c-table-container tbody tr"
	selDivisionHeader = "h2 a"
)

// unknownDivision is used for cards rendered before any division header
const unknownDivision = "Unknown"

// ParseFixtures extracts fixture records from a rendered club fixtures page.
// Cards are grouped under division headers; a card with no header of its own
// inherits the last division seen, so extraction is a fold over the cards in
// document order. A fault in one card is logged and skipped without
// disturbing its siblings.
func ParseFixtures(html string, matchDate time.Time) ([]models.FixtureRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixtures page: %w", err)
	}

	var records []models.FixtureRecord
	division := unknownDivision

	doc.Find(selMatchCard).Each(func(i int, card *goquery.Selection) {
		division = cardDivision(card, division)

		record, err := extractCard(card, matchDate, division)
		if err != nil {
			metrics.CardFailures.Inc()
			log.Warn().
				Err(err).
				Int("card", i).
				Str("date", matchDate.Format("2006-01-02")).
				Msg("Skipping malformed match card")
			return
		}
		records = append(records, record)
	})

	return records, nil
}

// cardDivision reads the division label from the nearest preceding sibling
// header block, falling back to the division the previous card established
func cardDivision(card *goquery.Selection, previous string) string {
	header := card.PrevAllFiltered("div").First().Find(selDivisionHeader).First()
	if name := strings.TrimSpace(header.Text()); name != "" {
		return name
	}
	return previous
}

func extractCard(card *goquery.Selection, matchDate time.Time, division string) (models.FixtureRecord, error) {
	body := card.Find(selFixtureBody).First()
	if body.Length() == 0 {
		return models.FixtureRecord{}, fmt.Errorf("no fixture body in card")
	}

	homeName := strings.TrimSpace(body.Find(selHomeBadge + " " + selBadgeLabel).First().Text())
	awayName := strings.TrimSpace(body.Find(selAwayBadge + " " + selBadgeLabel).First().Text())
	if homeName == "" || awayName == "" {
		return models.FixtureRecord{}, fmt.Errorf("missing team name (home=%q away=%q)", homeName, awayName)
	}

	homeBadge, _ := body.Find(selHomeBadge + " " + selBadgeImage).First().Attr("src")
	awayBadge, _ := body.Find(selAwayBadge + " " + selBadgeImage).First().Attr("src")

	scores := body.Find(selScoreItem)
	homeScore := strings.TrimSpace(scores.Eq(0).Text())
	awayScore := strings.TrimSpace(scores.Eq(1).Text())

	status := strings.TrimSpace(card.Find(selFixtureStatus).First().Text())

	return models.FixtureRecord{
		MatchDate:     matchDate,
		Division:      division,
		HomeTeam:      homeName,
		HomeBadgeURL:  homeBadge,
		HomeScoreText: homeScore,
		AwayTeam:      awayName,
		AwayBadgeURL:  awayBadge,
		AwayScoreText: awayScore,
		Decision:      models.DeriveDecision(status, homeScore),
	}, nil
}

// ParseStandings extracts a normalized team name -> ordinal position mapping
// from a rendered competition table page. Malformed rows are skipped
// individually.
func ParseStandings(html string) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse standings page: %w", err)
	}

	positions := make(map[string]string)

	doc.Find(selStandingsRow).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		rank, err := strconv.Atoi(strings.TrimSpace(cells.Eq(0).Text()))
		if err != nil {
			log.Debug().Int("row", i).Msg("Skipping standings row with non-numeric rank")
			return
		}

		team := models.NormalizeTeamName(cells.Eq(1).Text())
		if team == "" {
			return
		}

		positions[team] = Ordinal(rank)
		metrics.StandingsRows.Inc()
	})

	return positions, nil
}
