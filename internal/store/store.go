// Package store defines the datastore abstraction for basketwatch.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ComparisonQuery defines optional filters for comparison history queries.
type ComparisonQuery struct {
	SearchQuery *string
	Since       *time.Time
	Limit       int // default 50
	Offset      int
}

// Store defines all data access operations for basketwatch.
type Store interface {
	// Comparisons
	SaveComparison(ctx context.Context, c *domain.ComparisonResult) error
	GetComparison(ctx context.Context, id string) (*domain.ComparisonResult, error)
	ListComparisons(ctx context.Context, opts *ComparisonQuery) ([]domain.ComparisonResult, int, error)
	LatestComparison(ctx context.Context, searchQuery string) (*domain.ComparisonResult, error)

	// Watches
	CreateWatch(ctx context.Context, w *domain.Watch) error
	GetWatch(ctx context.Context, id string) (*domain.Watch, error)
	ListWatches(ctx context.Context, enabledOnly bool) ([]domain.Watch, error)
	UpdateWatch(ctx context.Context, w *domain.Watch) error
	DeleteWatch(ctx context.Context, id string) error
	SetWatchEnabled(ctx context.Context, id string, enabled bool) error
	UpdateWatchLastRun(ctx context.Context, id string, t time.Time) error

	// Scheduler
	InsertJobRun(ctx context.Context, jobName string) (id string, err error)
	CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
