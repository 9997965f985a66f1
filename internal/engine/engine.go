// Package engine orchestrates comparisons: source fan-out, matching,
// persistence, watch refreshes, and price alerts.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/basketwatch/basketwatch/internal/metrics"
	"github.com/basketwatch/basketwatch/internal/notify"
	"github.com/basketwatch/basketwatch/internal/store"
	"github.com/basketwatch/basketwatch/pkg/match"
	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// Fetcher fans a query out to the configured platform sources.
// *source.Runner is the production implementation.
type Fetcher interface {
	FanOut(ctx context.Context, query string) ([]match.PlatformRecords, error)
}

// Engine runs comparisons and watch refreshes.
type Engine struct {
	store    store.Store
	fetcher  Fetcher
	notifier notify.Notifier
	log      *slog.Logger

	matchCfg      match.Config
	location      domain.Location
	staggerOffset time.Duration
	nowFunc       func() time.Time
}

// NewEngine creates a new Engine with injected dependencies. A nil
// store disables persistence; a nil notifier disables alerts.
func NewEngine(
	s store.Store,
	f Fetcher,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:         s,
		fetcher:       f,
		notifier:      n,
		log:           slog.Default(),
		matchCfg:      match.DefaultConfig(),
		staggerOffset: 30 * time.Second,
		nowFunc:       time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithMatchConfig sets the matching configuration used for comparisons.
func WithMatchConfig(cfg match.Config) EngineOption {
	return func(e *Engine) {
		e.matchCfg = cfg
	}
}

// WithLocation sets the default location stamped on comparisons.
func WithLocation(loc domain.Location) EngineOption {
	return func(e *Engine) {
		e.location = loc
	}
}

// WithStaggerOffset sets the delay between refreshing each watch.
func WithStaggerOffset(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.staggerOffset = d
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// CompareRequest describes one comparison run.
type CompareRequest struct {
	Query string

	// Platforms restricts the run to these platforms; empty means all
	// configured sources.
	Platforms []domain.Platform

	// Location overrides the engine default when non-nil.
	Location *domain.Location

	// Strict switches on strict quantity matching for this run.
	Strict bool

	// SkipPersist runs the comparison without writing a snapshot.
	SkipPersist bool
}

// RunComparison fans the query out, reconciles the results, and
// persists the snapshot. The returned result matches the output
// contract regardless of how many platforms answered.
func (eng *Engine) RunComparison(ctx context.Context, req CompareRequest) (*domain.ComparisonResult, error) {
	if req.Query == "" {
		return nil, errors.New("query must not be empty")
	}

	records, err := eng.fetcher.FanOut(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("fetching platform listings: %w", err)
	}
	records = filterPlatforms(records, req.Platforms)

	cfg := eng.matchCfg
	if req.Strict {
		cfg = cfg.Strict()
	}

	start := time.Now()
	groups, err := match.GroupAcrossPlatforms(records, cfg, eng.log)
	if err != nil {
		return nil, fmt.Errorf("grouping products: %w", err)
	}
	before := len(groups)
	groups = match.DedupeGroups(groups, cfg)
	metrics.MatchingDuration.Observe(time.Since(start).Seconds())
	metrics.DedupeMergesTotal.Add(float64(before - len(groups)))

	matched := 0
	for _, g := range groups {
		if g.Matched() {
			matched++
			metrics.SimilarityDistribution.Observe(*g.SimilarityScore)
		}
	}
	metrics.MatchedGroupsTotal.Add(float64(matched))
	metrics.UnmatchedGroupsTotal.Add(float64(len(groups) - matched))

	loc := eng.location
	if req.Location != nil {
		loc = *req.Location
	}

	result := &domain.ComparisonResult{
		SearchQuery:     req.Query,
		Timestamp:       eng.nowFunc().UTC(),
		TotalProducts:   len(groups),
		MatchedProducts: matched,
		Location:        loc,
		Products:        groups,
	}

	if eng.store != nil && !req.SkipPersist {
		if err := eng.store.SaveComparison(ctx, result); err != nil {
			return nil, fmt.Errorf("saving comparison: %w", err)
		}
	}

	eng.log.Info("comparison complete",
		"query", req.Query,
		"groups", len(groups),
		"matched", matched,
	)
	return result, nil
}

// RunWatchRefresh re-runs every enabled watch and fires price alerts
// for groups whose minimum price is at or below the watch threshold.
func (eng *Engine) RunWatchRefresh(ctx context.Context) error {
	if eng.store == nil {
		return errors.New("watch refresh requires a store")
	}

	jobID, err := eng.store.InsertJobRun(ctx, "watch_refresh")
	if err != nil {
		return fmt.Errorf("recording job run: %w", err)
	}

	watches, err := eng.store.ListWatches(ctx, true)
	if err != nil {
		_ = eng.store.CompleteJobRun(ctx, jobID, "failed", err.Error(), 0)
		return fmt.Errorf("listing watches: %w", err)
	}

	refreshed := 0
	var firstErr error
	for i := range watches {
		if ctx.Err() != nil {
			_ = eng.store.CompleteJobRun(ctx, jobID, "canceled", ctx.Err().Error(), refreshed)
			return ctx.Err()
		}

		w := &watches[i]
		eng.log.Info("refreshing watch", "name", w.Name, "id", w.ID)
		metrics.WatchRunsTotal.Inc()

		if err := eng.refreshWatch(ctx, w); err != nil {
			eng.log.Error("watch refresh failed", "watch", w.Name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		refreshed++

		// Stagger between watches to avoid hammering sources.
		if i < len(watches)-1 && eng.staggerOffset > 0 {
			select {
			case <-ctx.Done():
				_ = eng.store.CompleteJobRun(ctx, jobID, "canceled", ctx.Err().Error(), refreshed)
				return ctx.Err()
			case <-time.After(eng.staggerOffset):
			}
		}
	}

	status := "success"
	errText := ""
	if firstErr != nil {
		status = "partial"
		errText = firstErr.Error()
	}
	if err := eng.store.CompleteJobRun(ctx, jobID, status, errText, refreshed); err != nil {
		return fmt.Errorf("completing job run: %w", err)
	}
	return nil
}

func (eng *Engine) refreshWatch(ctx context.Context, w *domain.Watch) error {
	result, err := eng.RunComparison(ctx, CompareRequest{
		Query:     w.SearchQuery,
		Platforms: w.Platforms,
		Location:  &w.Location,
		Strict:    w.Strict,
	})
	if err != nil {
		return err
	}

	if err := eng.store.UpdateWatchLastRun(ctx, w.ID, result.Timestamp); err != nil {
		eng.log.Warn("updating watch last run failed", "watch", w.Name, "error", err)
	}

	if w.MaxPrice == nil || eng.notifier == nil {
		return nil
	}

	var alerts []notify.AlertPayload
	for i := range result.Products {
		g := &result.Products[i]
		price, platform, ok := g.MinPrice()
		if !ok || price > *w.MaxPrice {
			continue
		}
		alerts = append(alerts, notify.AlertPayload{
			WatchName:   w.Name,
			SearchQuery: w.SearchQuery,
			ProductName: g.Name,
			Platform:    platform,
			Price:       price,
			MaxPrice:    *w.MaxPrice,
			Link:        g.Platforms[platform].Link,
			Image:       g.Image,
		})
	}
	if len(alerts) == 0 {
		return nil
	}

	metrics.AlertsFiredTotal.Add(float64(len(alerts)))
	if err := eng.notifier.SendBatchAlert(ctx, alerts, w.Name); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		eng.log.Error("sending alerts failed", "watch", w.Name, "error", err)
	}
	return nil
}

func filterPlatforms(records []match.PlatformRecords, allowed []domain.Platform) []match.PlatformRecords {
	if len(allowed) == 0 {
		return records
	}
	allow := make(map[domain.Platform]bool, len(allowed))
	for _, p := range allowed {
		allow[p] = true
	}
	out := records[:0]
	for _, pr := range records {
		if allow[pr.Platform] {
			out = append(out, pr)
		}
	}
	return out
}
