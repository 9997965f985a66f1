package handlers_test

import (
	"context"
	"time"

	"github.com/basketwatch/basketwatch/internal/engine"
	"github.com/basketwatch/basketwatch/internal/store"
	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// fakeComparer records the last request and returns canned output.
type fakeComparer struct {
	result *domain.ComparisonResult
	err    error

	got   engine.CompareRequest
	calls int
}

func (f *fakeComparer) RunComparison(_ context.Context, req engine.CompareRequest) (*domain.ComparisonResult, error) {
	f.got = req
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeComparisonsStore returns canned comparisons.
type fakeComparisonsStore struct {
	comparisons []domain.ComparisonResult
	total       int
	err         error

	gotQuery  *store.ComparisonQuery
	gotID     string
	gotSearch string
}

func (f *fakeComparisonsStore) GetComparison(_ context.Context, id string) (*domain.ComparisonResult, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &f.comparisons[0], nil
}

func (f *fakeComparisonsStore) ListComparisons(_ context.Context, opts *store.ComparisonQuery) ([]domain.ComparisonResult, int, error) {
	f.gotQuery = opts
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.comparisons, f.total, nil
}

func (f *fakeComparisonsStore) LatestComparison(_ context.Context, searchQuery string) (*domain.ComparisonResult, error) {
	f.gotSearch = searchQuery
	if f.err != nil {
		return nil, f.err
	}
	return &f.comparisons[0], nil
}

// fakeWatchStore is an in-memory WatchesProvider.
type fakeWatchStore struct {
	watches []domain.Watch
	err     error

	created    *domain.Watch
	updated    *domain.Watch
	deletedID  string
	enabledID  string
	enabledVal bool
}

func (f *fakeWatchStore) CreateWatch(_ context.Context, w *domain.Watch) error {
	if f.err != nil {
		return f.err
	}
	w.ID = "w-new"
	w.CreatedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	w.UpdatedAt = w.CreatedAt
	f.created = w
	return nil
}

func (f *fakeWatchStore) GetWatch(_ context.Context, id string) (*domain.Watch, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.watches {
		if f.watches[i].ID == id {
			return &f.watches[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeWatchStore) ListWatches(_ context.Context, enabledOnly bool) ([]domain.Watch, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !enabledOnly {
		return f.watches, nil
	}
	var out []domain.Watch
	for _, w := range f.watches {
		if w.Enabled {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWatchStore) UpdateWatch(_ context.Context, w *domain.Watch) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.watches {
		if f.watches[i].ID == w.ID {
			f.updated = w
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeWatchStore) DeleteWatch(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	for _, w := range f.watches {
		if w.ID == id {
			f.deletedID = id
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeWatchStore) SetWatchEnabled(_ context.Context, id string, enabled bool) error {
	if f.err != nil {
		return f.err
	}
	for _, w := range f.watches {
		if w.ID == id {
			f.enabledID = id
			f.enabledVal = enabled
			return nil
		}
	}
	return store.ErrNotFound
}

// fakeJobsStore returns canned job runs.
type fakeJobsStore struct {
	runs []domain.JobRun
	err  error

	gotName  string
	gotLimit int
}

func (f *fakeJobsStore) ListJobRuns(_ context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	f.gotName = jobName
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.runs, nil
}

// fakePinger fails with err when set.
type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error {
	return f.err
}
