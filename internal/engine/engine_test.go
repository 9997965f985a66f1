package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketwatch/basketwatch/internal/notify"
	"github.com/basketwatch/basketwatch/internal/store"
	"github.com/basketwatch/basketwatch/pkg/logger"
	"github.com/basketwatch/basketwatch/pkg/match"
	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// fakeFetcher returns canned per-platform records.
type fakeFetcher struct {
	records []match.PlatformRecords
	err     error
	queries []string
}

func (f *fakeFetcher) FanOut(_ context.Context, query string) ([]match.PlatformRecords, error) {
	f.queries = append(f.queries, query)
	return f.records, f.err
}

// fakeStore is an in-memory Store covering what the engine touches.
type fakeStore struct {
	mu          sync.Mutex
	comparisons []domain.ComparisonResult
	watches     []domain.Watch
	jobs        map[string]string // id -> status
	lastRuns    map[string]time.Time
	saveErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:     map[string]string{},
		lastRuns: map[string]time.Time{},
	}
}

func (s *fakeStore) SaveComparison(_ context.Context, c *domain.ComparisonResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	c.ID = "cmp-1"
	s.comparisons = append(s.comparisons, *c)
	return nil
}

func (s *fakeStore) GetComparison(context.Context, string) (*domain.ComparisonResult, error) {
	return nil, store.ErrNotFound
}

func (s *fakeStore) ListComparisons(context.Context, *store.ComparisonQuery) ([]domain.ComparisonResult, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comparisons, len(s.comparisons), nil
}

func (s *fakeStore) LatestComparison(context.Context, string) (*domain.ComparisonResult, error) {
	return nil, store.ErrNotFound
}

func (s *fakeStore) CreateWatch(context.Context, *domain.Watch) error { return nil }

func (s *fakeStore) GetWatch(context.Context, string) (*domain.Watch, error) {
	return nil, store.ErrNotFound
}

func (s *fakeStore) ListWatches(context.Context, bool) ([]domain.Watch, error) {
	return s.watches, nil
}

func (s *fakeStore) UpdateWatch(context.Context, *domain.Watch) error  { return nil }
func (s *fakeStore) DeleteWatch(context.Context, string) error         { return nil }
func (s *fakeStore) SetWatchEnabled(context.Context, string, bool) error { return nil }

func (s *fakeStore) UpdateWatchLastRun(_ context.Context, id string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRuns[id] = t
	return nil
}

func (s *fakeStore) InsertJobRun(_ context.Context, jobName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := jobName + "-run"
	s.jobs[id] = "running"
	return id, nil
}

func (s *fakeStore) CompleteJobRun(_ context.Context, id, status, _ string, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id] = status
	return nil
}

func (s *fakeStore) ListJobRuns(context.Context, string, int) ([]domain.JobRun, error) {
	return nil, nil
}

func (s *fakeStore) Migrate(context.Context) error { return nil }
func (s *fakeStore) Ping(context.Context) error    { return nil }

var _ store.Store = (*fakeStore)(nil)

// fakeNotifier records what would have been sent.
type fakeNotifier struct {
	mu      sync.Mutex
	batches [][]notify.AlertPayload
	err     error
}

func (n *fakeNotifier) SendAlert(_ context.Context, a *notify.AlertPayload) error {
	return n.SendBatchAlert(context.Background(), []notify.AlertPayload{*a}, a.WatchName)
}

func (n *fakeNotifier) SendBatchAlert(_ context.Context, alerts []notify.AlertPayload, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.batches = append(n.batches, alerts)
	return nil
}

func saltRecords() []match.PlatformRecords {
	return []match.PlatformRecords{
		{Platform: domain.PlatformZepto, Products: []domain.RawProduct{
			{Name: "Tata Salt 1kg", Price: 28, Platform: domain.PlatformZepto, Link: "https://z.example/p/1"},
		}},
		{Platform: domain.PlatformBlinkit, Products: []domain.RawProduct{
			{Name: "Tata Salt 1 kg", Price: 26, Platform: domain.PlatformBlinkit, Link: "https://b.example/p/9"},
		}},
	}
}

func newTestEngine(s store.Store, f Fetcher, n notify.Notifier, opts ...EngineOption) *Engine {
	base := []EngineOption{
		WithLogger(logger.Discard()),
		WithStaggerOffset(0),
	}
	return NewEngine(s, f, n, append(base, opts...)...)
}

func TestNewEngine_Defaults(t *testing.T) {
	t.Parallel()

	eng := NewEngine(newFakeStore(), &fakeFetcher{}, &fakeNotifier{})
	assert.Equal(t, 30*time.Second, eng.staggerOffset)
	assert.Equal(t, match.DefaultConfig(), eng.matchCfg)
	assert.NotNil(t, eng.log)
}

func TestRunComparison(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	eng := newTestEngine(fs, &fakeFetcher{records: saltRecords()}, nil,
		WithLocation(domain.Location{City: "Mumbai"}),
		WithNowFunc(func() time.Time { return fixed }),
	)

	result, err := eng.RunComparison(context.Background(), CompareRequest{Query: "salt"})
	require.NoError(t, err)

	assert.Equal(t, "salt", result.SearchQuery)
	assert.Equal(t, fixed, result.Timestamp)
	assert.Equal(t, "Mumbai", result.Location.City)
	assert.Equal(t, 1, result.TotalProducts)
	assert.Equal(t, 1, result.MatchedProducts)
	require.Len(t, result.Products, 1)
	assert.Len(t, result.Products[0].Platforms, 2)

	assert.Equal(t, "cmp-1", result.ID, "persisted snapshot gets its store ID")
	require.Len(t, fs.comparisons, 1)
}

func TestRunComparison_EmptyQuery(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(newFakeStore(), &fakeFetcher{}, nil)
	_, err := eng.RunComparison(context.Background(), CompareRequest{})
	require.Error(t, err)
}

func TestRunComparison_FetchError(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(newFakeStore(), &fakeFetcher{err: errors.New("all sources failed")}, nil)
	_, err := eng.RunComparison(context.Background(), CompareRequest{Query: "salt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching platform listings")
}

func TestRunComparison_SkipPersist(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	eng := newTestEngine(fs, &fakeFetcher{records: saltRecords()}, nil)

	result, err := eng.RunComparison(context.Background(), CompareRequest{Query: "salt", SkipPersist: true})
	require.NoError(t, err)
	assert.Empty(t, result.ID)
	assert.Empty(t, fs.comparisons)
}

func TestRunComparison_NilStore(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(nil, &fakeFetcher{records: saltRecords()}, nil)
	result, err := eng.RunComparison(context.Background(), CompareRequest{Query: "salt"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalProducts)
}

func TestRunComparison_PlatformFilter(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(nil, &fakeFetcher{records: saltRecords()}, nil)

	result, err := eng.RunComparison(context.Background(), CompareRequest{
		Query:     "salt",
		Platforms: []domain.Platform{domain.PlatformZepto},
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Len(t, result.Products[0].Platforms, 1)
	assert.Nil(t, result.Products[0].SimilarityScore, "single platform left means singletons only")
}

func TestRunComparison_StrictBlocksUnknownQuantities(t *testing.T) {
	t.Parallel()

	records := []match.PlatformRecords{
		{Platform: domain.PlatformZepto, Products: []domain.RawProduct{
			{Name: "Organic Honey", Price: 210, Platform: domain.PlatformZepto},
		}},
		{Platform: domain.PlatformBlinkit, Products: []domain.RawProduct{
			{Name: "Organic Honey", Price: 220, Platform: domain.PlatformBlinkit},
		}},
	}
	eng := newTestEngine(nil, &fakeFetcher{records: records}, nil)

	relaxed, err := eng.RunComparison(context.Background(), CompareRequest{Query: "honey"})
	require.NoError(t, err)
	assert.Equal(t, 1, relaxed.MatchedProducts)

	strict, err := eng.RunComparison(context.Background(), CompareRequest{Query: "honey", Strict: true})
	require.NoError(t, err)
	assert.Equal(t, 0, strict.MatchedProducts)
}

func TestRunWatchRefresh_FiresAlerts(t *testing.T) {
	t.Parallel()

	maxPrice := 27.0
	fs := newFakeStore()
	fs.watches = []domain.Watch{{
		ID:          "w1",
		Name:        "staples",
		SearchQuery: "salt",
		MaxPrice:    &maxPrice,
		Enabled:     true,
	}}
	fn := &fakeNotifier{}
	eng := newTestEngine(fs, &fakeFetcher{records: saltRecords()}, fn)

	require.NoError(t, eng.RunWatchRefresh(context.Background()))

	require.Len(t, fn.batches, 1)
	require.Len(t, fn.batches[0], 1)
	alert := fn.batches[0][0]
	assert.Equal(t, "staples", alert.WatchName)
	assert.Equal(t, domain.PlatformBlinkit, alert.Platform, "cheapest platform wins the alert")
	assert.Equal(t, 26.0, alert.Price)
	assert.Equal(t, 27.0, alert.MaxPrice)

	assert.Equal(t, "success", fs.jobs["watch_refresh-run"])
	assert.False(t, fs.lastRuns["w1"].IsZero())
}

func TestRunWatchRefresh_NoAlertAboveThreshold(t *testing.T) {
	t.Parallel()

	maxPrice := 20.0
	fs := newFakeStore()
	fs.watches = []domain.Watch{{
		ID: "w1", Name: "staples", SearchQuery: "salt",
		MaxPrice: &maxPrice, Enabled: true,
	}}
	fn := &fakeNotifier{}
	eng := newTestEngine(fs, &fakeFetcher{records: saltRecords()}, fn)

	require.NoError(t, eng.RunWatchRefresh(context.Background()))
	assert.Empty(t, fn.batches)
}

func TestRunWatchRefresh_PartialOnFailure(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.watches = []domain.Watch{
		{ID: "w1", Name: "broken", SearchQuery: "", Enabled: true},
		{ID: "w2", Name: "healthy", SearchQuery: "salt", Enabled: true},
	}
	eng := newTestEngine(fs, &fakeFetcher{records: saltRecords()}, &fakeNotifier{})

	require.NoError(t, eng.RunWatchRefresh(context.Background()))
	assert.Equal(t, "partial", fs.jobs["watch_refresh-run"])
	assert.False(t, fs.lastRuns["w2"].IsZero(), "healthy watch still refreshed")
}

func TestRunWatchRefresh_NotifierFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	maxPrice := 27.0
	fs := newFakeStore()
	fs.watches = []domain.Watch{{
		ID: "w1", Name: "staples", SearchQuery: "salt",
		MaxPrice: &maxPrice, Enabled: true,
	}}
	fn := &fakeNotifier{err: errors.New("webhook down")}
	eng := newTestEngine(fs, &fakeFetcher{records: saltRecords()}, fn)

	require.NoError(t, eng.RunWatchRefresh(context.Background()))
	assert.Equal(t, "success", fs.jobs["watch_refresh-run"])
}
