package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/basketwatch/basketwatch/internal/config"
	"github.com/basketwatch/basketwatch/internal/source"
)

// buildRunner assembles the platform sources and fan-out runner from
// the loaded configuration.
func buildRunner(cfg *config.Config, log *slog.Logger) (*source.Runner, error) {
	sources := make([]source.Source, 0, len(cfg.Sources))
	longestTimeout := time.Duration(0)
	for _, sc := range cfg.Sources {
		if sc.Timeout > longestTimeout {
			longestTimeout = sc.Timeout
		}
		switch sc.Type {
		case "http":
			sources = append(sources, source.NewHTTPSource(
				sc.Platform,
				sc.Endpoint,
				source.WithRateLimit(sc.RateLimit.PerSecond, sc.RateLimit.Burst),
				source.WithHTTPClient(&http.Client{Timeout: sc.Timeout}),
			))
		case "file":
			sources = append(sources, source.NewFileSource(sc.Platform, sc.Path))
		default:
			return nil, fmt.Errorf("unknown source type %q for platform %s", sc.Type, sc.Platform)
		}
	}

	opts := []source.RunnerOption{source.WithLogger(log)}
	if longestTimeout > 0 {
		opts = append(opts, source.WithTimeout(longestTimeout))
	}

	return source.NewRunner(sources, opts...), nil
}
