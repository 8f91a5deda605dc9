package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Source site
	SiteBaseURL string `envconfig:"SITE_BASE_URL" default:"https://southeast.englandhockey.co.uk"`
	ClubSlug    string `envconfig:"CLUB_SLUG" default:"burnt-ash--bexley--hc"`

	// Season
	SeasonStart string `envconfig:"SEASON_START" default:"2025-09-20"`

	// Browser / extraction
	BrowserHeadless  bool          `envconfig:"BROWSER_HEADLESS" default:"true"`
	BrowserNoSandbox bool          `envconfig:"BROWSER_NO_SANDBOX" default:"true"`
	FixtureWait      time.Duration `envconfig:"FIXTURE_WAIT" default:"6s"`
	StandingsWait    time.Duration `envconfig:"STANDINGS_WAIT" default:"10s"`

	// Optional JSON file overriding the built-in division table URLs
	DivisionTableFile string `envconfig:"DIVISION_TABLE_FILE" default:""`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"fixtures"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"fixtures_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis (run lock; optional infrastructure)
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Scheduler
	EnableScheduler bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	ScrapeCron      string `envconfig:"SCRAPE_CRON" default:"0 18 * * 5"`
	RunOnStart      bool   `envconfig:"RUN_ON_START" default:"false"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.ClubSlug == "" {
		return fmt.Errorf("CLUB_SLUG must not be empty")
	}

	if _, err := time.Parse("2006-01-02", c.SeasonStart); err != nil {
		return fmt.Errorf("SEASON_START must be YYYY-MM-DD: %w", err)
	}

	return nil
}

// SeasonStartDate returns the parsed season start date
func (c *Config) SeasonStartDate() time.Time {
	// Validated in Load; safe to ignore the error here
	t, _ := time.Parse("2006-01-02", c.SeasonStart)
	return t
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DivisionTables returns the competition name to standings URL table.
// The built-in table is used unless DIVISION_TABLE_FILE points at a JSON
// object of name -> URL.
func (c *Config) DivisionTables() (map[string]string, error) {
	if c.DivisionTableFile == "" {
		return DefaultDivisionTables(), nil
	}

	data, err := os.ReadFile(c.DivisionTableFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read division table file: %w", err)
	}

	tables := make(map[string]string)
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse division table file: %w", err)
	}

	return tables, nil
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
