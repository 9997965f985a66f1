package main

import "errors"

// KnownMetrics is the set of metric names exported by basketd plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"basketd_http_request_duration_seconds": true,
	"basketd_http_requests_total":           true,

	// Health metrics.
	"basketd_healthz_up": true,
	"basketd_readyz_up":  true,

	// Source fan-out metrics.
	"basketd_source_fetch_duration_seconds": true,
	"basketd_source_records_total":          true,
	"basketd_source_errors_total":           true,

	// Matching metrics.
	"basketd_matching_duration_seconds": true,
	"basketd_matched_groups_total":      true,
	"basketd_unmatched_groups_total":    true,
	"basketd_dedupe_merges_total":       true,
	"basketd_similarity_distribution":   true,

	// Scheduler and alert metrics.
	"basketd_watch_runs_total":            true,
	"basketd_alerts_fired_total":          true,
	"basketd_notification_failures_total": true,

	// Recording rules.
	"basketd:http_requests:rate5m":  true,
	"basketd:http_errors:rate5m":    true,
	"basketd:source_records:rate5m": true,
	"basketd:source_errors:rate5m":  true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
