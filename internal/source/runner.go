package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/basketwatch/basketwatch/internal/metrics"
	"github.com/basketwatch/basketwatch/pkg/logger"
	"github.com/basketwatch/basketwatch/pkg/match"
)

// Runner fans a query out to every configured source concurrently.
// Source failures are isolated: a comparison proceeds on whatever
// platforms answered, and FanOut errors only when nothing did.
type Runner struct {
	sources []Source
	timeout time.Duration
	limit   int
	log     *slog.Logger
}

// RunnerOption configures the Runner.
type RunnerOption func(*Runner)

// WithTimeout caps each individual source fetch. Default 15s.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithConcurrency caps how many sources fetch at once. Default: all.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		r.limit = n
	}
}

// WithLogger sets the runner's logger.
func WithLogger(log *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.log = log
	}
}

// NewRunner creates a fan-out runner over the given sources.
func NewRunner(sources []Source, opts ...RunnerOption) *Runner {
	r := &Runner{
		sources: sources,
		timeout: 15 * time.Second,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FanOut queries every source and returns the per-platform record
// lists in source order. Platforms that failed are absent from the
// result; the error is non-nil only when every source failed.
func (r *Runner) FanOut(ctx context.Context, query string) ([]match.PlatformRecords, error) {
	results := make([]match.PlatformRecords, len(r.sources))
	failures := make([]error, len(r.sources))

	g, ctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}

	for i, src := range r.sources {
		g.Go(func() error {
			platform := src.Platform()
			fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			start := time.Now()
			records, err := src.Search(fetchCtx, query)
			metrics.SourceFetchDuration.WithLabelValues(string(platform)).
				Observe(time.Since(start).Seconds())

			if err != nil {
				metrics.SourceErrorsTotal.WithLabelValues(string(platform)).Inc()
				r.log.Warn("source fetch failed",
					"platform", platform,
					"query", query,
					"error", err)
				failures[i] = fmt.Errorf("%s: %w", platform, err)
				return nil
			}

			metrics.SourceRecordsTotal.WithLabelValues(string(platform)).
				Add(float64(len(records)))
			results[i] = match.PlatformRecords{Platform: platform, Products: records}
			return nil
		})
	}

	// Goroutines never return errors; Wait only propagates ctx cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]match.PlatformRecords, 0, len(results))
	for _, pr := range results {
		if pr.Platform.Valid() {
			out = append(out, pr)
		}
	}

	if len(out) == 0 && len(r.sources) > 0 {
		return nil, fmt.Errorf("all sources failed: %w", errors.Join(failures...))
	}
	return out, nil
}
