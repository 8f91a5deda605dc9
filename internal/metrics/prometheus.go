package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the fixtures ingestion pipeline

var (
	// Run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixtures_runs_total",
			Help: "Total number of scrape runs by outcome",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fixtures_run_duration_seconds",
			Help:    "Duration of a full scrape run in seconds",
			Buckets: []float64{5, 10, 30, 60, 120, 300, 600},
		},
	)

	// Extraction metrics
	FixturesScraped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fixtures_scraped_total",
			Help: "Total number of fixture records extracted from match cards",
		},
	)

	FixturesInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fixtures_inserted_total",
			Help: "Total number of fixture rows written by reconciliation",
		},
	)

	CardFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fixtures_card_failures_total",
			Help: "Total number of match cards skipped as malformed",
		},
	)

	// Standings metrics
	StandingsRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fixtures_standings_rows_total",
			Help: "Total number of standings rows parsed",
		},
	)

	StandingsFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixtures_standings_failures_total",
			Help: "Total number of standings pages that yielded no data",
		},
		[]string{"division"},
	)
)

// Run outcome label values
const (
	StatusOK     = "ok"
	StatusEmpty  = "empty"
	StatusError  = "error"
	StatusLocked = "locked"
)
