package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://southeast.englandhockey.co.uk", cfg.SiteBaseURL)
	assert.Equal(t, "burnt-ash--bexley--hc", cfg.ClubSlug)
	assert.Equal(t, 6*time.Second, cfg.FixtureWait)
	assert.Equal(t, 10*time.Second, cfg.StandingsWait)
	assert.Equal(t, "0 18 * * 5", cfg.ScrapeCron)
	assert.True(t, cfg.BrowserHeadless)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoad_MissingPassword(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_PASSWORD")
}

func TestValidate_SeasonStart(t *testing.T) {
	cfg := &Config{DatabasePassword: "secret", ClubSlug: "club", SeasonStart: "2025-09-20"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC), cfg.SeasonStartDate())

	cfg.SeasonStart = "20/09/2025"
	assert.Error(t, cfg.Validate(), "Season start must be YYYY-MM-DD")
}

func TestDivisionTables_Default(t *testing.T) {
	cfg := &Config{}

	tables, err := cfg.DivisionTables()
	require.NoError(t, err)
	assert.Len(t, tables, 13)
	assert.Contains(t, tables, "South East Women's Division 1 East")
}

func TestDivisionTables_FileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Div A": "https://example.com/a"}`), 0o600))

	cfg := &Config{DivisionTableFile: path}
	tables, err := cfg.DivisionTables()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Div A": "https://example.com/a"}, tables)

	cfg.DivisionTableFile = filepath.Join(t.TempDir(), "missing.json")
	_, err = cfg.DivisionTables()
	assert.Error(t, err, "A configured but unreadable file is a hard error")
}
