// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/basketwatch/basketwatch/pkg/match"
	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Sources       []SourceConfig      `yaml:"sources"`
	Matching      MatchingConfig      `yaml:"matching"`
	Location      LocationConfig      `yaml:"location"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// SourceConfig defines one platform feed. Type selects the adapter:
// "http" polls an endpoint, "file" reads a local snapshot.
type SourceConfig struct {
	Platform  domain.Platform `yaml:"platform"`
	Type      string          `yaml:"type"` // http, file
	Endpoint  string          `yaml:"endpoint"`
	Path      string          `yaml:"path"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines per-source request rate limiting.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// MatchingConfig defines the reconciliation knobs. Zero values fall
// back to the match package defaults.
type MatchingConfig struct {
	SimilarityThreshold       float64 `yaml:"similarity_threshold"`
	StrictMatching            bool    `yaml:"strict_matching"`
	QuantityToleranceRatio    float64 `yaml:"quantity_tolerance_ratio"`
	QuantityToleranceAbsolute float64 `yaml:"quantity_tolerance_absolute"`
	QuantityMatchBoost        float64 `yaml:"quantity_match_boost"`
	SequenceWeight            float64 `yaml:"sequence_weight"`
	WordWeight                float64 `yaml:"word_weight"`
	DedupeThreshold           float64 `yaml:"dedupe_threshold"`
}

// MatchConfig converts the YAML knobs to a match.Config, filling
// unset values with defaults.
func (m *MatchingConfig) MatchConfig() match.Config {
	cfg := match.DefaultConfig()
	if m.SimilarityThreshold != 0 {
		cfg.SimilarityThreshold = m.SimilarityThreshold
	}
	if m.QuantityToleranceRatio != 0 {
		cfg.QuantityToleranceRatio = m.QuantityToleranceRatio
	}
	if m.QuantityToleranceAbsolute != 0 {
		cfg.QuantityToleranceAbsolute = m.QuantityToleranceAbsolute
	}
	if m.QuantityMatchBoost != 0 {
		cfg.QuantityMatchBoost = m.QuantityMatchBoost
	}
	if m.SequenceWeight != 0 || m.WordWeight != 0 {
		cfg.SequenceWeight = m.SequenceWeight
		cfg.WordWeight = m.WordWeight
	}
	if m.DedupeThreshold != 0 {
		cfg.DedupeThreshold = m.DedupeThreshold
	}
	if m.StrictMatching {
		cfg = cfg.Strict()
	}
	return cfg
}

// LocationConfig defines the default location stamped on comparisons.
type LocationConfig struct {
	City string  `yaml:"city"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// Location converts to the domain type.
func (l *LocationConfig) Location() domain.Location {
	return domain.Location{City: l.City, Lat: l.Lat, Lon: l.Lon}
}

// ScheduleConfig defines cron intervals for watch refreshes.
type ScheduleConfig struct {
	WatchInterval time.Duration `yaml:"watch_interval"`
	StaggerOffset time.Duration `yaml:"stagger_offset"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Webhook WebhookConfig `yaml:"webhook"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	for i := range cfg.Sources {
		applySourceDefaults(&cfg.Sources[i])
	}
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applySourceDefaults(s *SourceConfig) {
	if s.Type == "" {
		s.Type = "http"
	}
	if s.Timeout == 0 {
		s.Timeout = 15 * time.Second
	}
	if s.RateLimit.PerSecond == 0 {
		s.RateLimit.PerSecond = 2.0
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 4
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.WatchInterval == 0 {
		s.WatchInterval = 15 * time.Minute
	}
	if s.StaggerOffset == 0 {
		s.StaggerOffset = 30 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	seen := map[domain.Platform]bool{}
	for i, s := range cfg.Sources {
		if !s.Platform.Valid() {
			errs = append(errs, fmt.Errorf("sources[%d].platform must not be blank", i))
			continue
		}
		if seen[s.Platform] {
			errs = append(errs, fmt.Errorf("sources[%d]: duplicate platform %q", i, s.Platform))
		}
		seen[s.Platform] = true

		switch s.Type {
		case "http":
			if s.Endpoint == "" {
				errs = append(errs, fmt.Errorf("sources[%d].endpoint is required when type is http", i))
			}
		case "file":
			if s.Path == "" {
				errs = append(errs, fmt.Errorf("sources[%d].path is required when type is file", i))
			}
		default:
			errs = append(errs, fmt.Errorf("sources[%d].type must be one of: http, file (got %q)", i, s.Type))
		}
	}

	if err := cfg.Matching.MatchConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("matching: %w", err))
	}

	if cfg.Notifications.Webhook.Enabled && cfg.Notifications.Webhook.URL == "" {
		errs = append(errs, fmt.Errorf("notifications.webhook.url is required when enabled"))
	}

	return errors.Join(errs...)
}
