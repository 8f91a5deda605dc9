package reconcile

import "hockeyfixtures/ingestion/internal/models"

// PositionCache maps division name -> normalized team name -> ordinal league
// position. It is built once per run from the standings scrape and discarded
// at run end; it is never persisted.
type PositionCache map[string]map[string]string

// NewPositionCache returns an empty cache
func NewPositionCache() PositionCache {
	return make(PositionCache)
}

// Set stores one division's standings mapping
func (c PositionCache) Set(division string, positions map[string]string) {
	c[division] = positions
}

// Lookup returns the position label for a team within a division,
// or the "N/A" sentinel when either side of the mapping is absent.
func (c PositionCache) Lookup(division, team string) string {
	if positions, ok := c[division]; ok {
		if pos, ok := positions[models.NormalizeTeamName(team)]; ok {
			return pos
		}
	}
	return models.PositionUnknown
}
