package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
// Comparison snapshots are stored as JSONB: the output contract is the
// schema, so history survives matcher changes untouched.
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// PostgresOption configures the PostgresStore.
type PostgresOption func(*pgxpool.Config)

// WithPoolSize overrides the default connection pool size.
func WithPoolSize(n int) PostgresOption {
	return func(cfg *pgxpool.Config) {
		cfg.MaxConns = int32(n)
	}
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, opts ...PostgresOption) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// SaveComparison inserts a comparison snapshot and fills in its ID.
func (s *PostgresStore) SaveComparison(ctx context.Context, c *domain.ComparisonResult) error {
	locationJSON, err := json.Marshal(c.Location)
	if err != nil {
		return fmt.Errorf("marshaling location: %w", err)
	}
	productsJSON, err := json.Marshal(c.Products)
	if err != nil {
		return fmt.Errorf("marshaling products: %w", err)
	}

	args := pgx.NamedArgs{
		"search_query":     c.SearchQuery,
		"run_at":           c.Timestamp,
		"total_products":   c.TotalProducts,
		"matched_products": c.MatchedProducts,
		"location":         locationJSON,
		"products":         productsJSON,
	}

	return s.pool.QueryRow(ctx, queryInsertComparison, args).Scan(&c.ID)
}

// GetComparison retrieves a comparison snapshot by ID.
func (s *PostgresStore) GetComparison(ctx context.Context, id string) (*domain.ComparisonResult, error) {
	c := &domain.ComparisonResult{}
	err := scanComparison(s.pool.QueryRow(ctx, queryGetComparison, id), c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LatestComparison retrieves the most recent snapshot for a search query.
func (s *PostgresStore) LatestComparison(ctx context.Context, searchQuery string) (*domain.ComparisonResult, error) {
	c := &domain.ComparisonResult{}
	err := scanComparison(s.pool.QueryRow(ctx, queryLatestComparison, searchQuery), c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListComparisons queries comparison history with optional filters,
// returning results and total count.
func (s *PostgresStore) ListComparisons(
	ctx context.Context,
	opts *ComparisonQuery,
) ([]domain.ComparisonResult, int, error) {
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting comparisons: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying comparisons: %w", err)
	}
	defer rows.Close()

	var results []domain.ComparisonResult
	for rows.Next() {
		var c domain.ComparisonResult
		if err := scanComparison(rows, &c); err != nil {
			return nil, 0, err
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating comparisons: %w", err)
	}

	return results, total, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanComparison(row rowScanner, c *domain.ComparisonResult) error {
	var locationJSON, productsJSON []byte
	err := row.Scan(
		&c.ID, &c.SearchQuery, &c.Timestamp,
		&c.TotalProducts, &c.MatchedProducts,
		&locationJSON, &productsJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("scanning comparison: %w", err)
	}
	if err := json.Unmarshal(locationJSON, &c.Location); err != nil {
		return fmt.Errorf("unmarshaling location: %w", err)
	}
	if err := json.Unmarshal(productsJSON, &c.Products); err != nil {
		return fmt.Errorf("unmarshaling products: %w", err)
	}
	return nil
}

// CreateWatch inserts a watch and fills in its generated fields.
func (s *PostgresStore) CreateWatch(ctx context.Context, w *domain.Watch) error {
	locationJSON, err := json.Marshal(w.Location)
	if err != nil {
		return fmt.Errorf("marshaling location: %w", err)
	}

	args := pgx.NamedArgs{
		"name":         w.Name,
		"search_query": w.SearchQuery,
		"platforms":    platformStrings(w.Platforms),
		"location":     locationJSON,
		"max_price":    w.MaxPrice,
		"strict":       w.Strict,
		"enabled":      w.Enabled,
	}

	return s.pool.QueryRow(ctx, queryCreateWatch, args).Scan(
		&w.ID, &w.CreatedAt, &w.UpdatedAt,
	)
}

// GetWatch retrieves a watch by ID.
func (s *PostgresStore) GetWatch(ctx context.Context, id string) (*domain.Watch, error) {
	w := &domain.Watch{}
	if err := scanWatch(s.pool.QueryRow(ctx, queryGetWatch, id), w); err != nil {
		return nil, err
	}
	return w, nil
}

// ListWatches returns all watches, optionally only enabled ones.
func (s *PostgresStore) ListWatches(ctx context.Context, enabledOnly bool) ([]domain.Watch, error) {
	query := queryListWatchesAll
	if enabledOnly {
		query = queryListWatchesEnabled
	}

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying watches: %w", err)
	}
	defer rows.Close()

	var watches []domain.Watch
	for rows.Next() {
		var w domain.Watch
		if err := scanWatch(rows, &w); err != nil {
			return nil, err
		}
		watches = append(watches, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating watches: %w", err)
	}

	return watches, nil
}

// UpdateWatch persists a watch's mutable fields.
func (s *PostgresStore) UpdateWatch(ctx context.Context, w *domain.Watch) error {
	locationJSON, err := json.Marshal(w.Location)
	if err != nil {
		return fmt.Errorf("marshaling location: %w", err)
	}

	args := pgx.NamedArgs{
		"id":           w.ID,
		"name":         w.Name,
		"search_query": w.SearchQuery,
		"platforms":    platformStrings(w.Platforms),
		"location":     locationJSON,
		"max_price":    w.MaxPrice,
		"strict":       w.Strict,
		"enabled":      w.Enabled,
	}

	err = s.pool.QueryRow(ctx, queryUpdateWatch, args).Scan(&w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// DeleteWatch removes a watch by ID.
func (s *PostgresStore) DeleteWatch(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteWatch, id)
	if err != nil {
		return fmt.Errorf("deleting watch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetWatchEnabled toggles a watch without touching its other fields.
func (s *PostgresStore) SetWatchEnabled(ctx context.Context, id string, enabled bool) error {
	var got string
	err := s.pool.QueryRow(ctx, querySetWatchEnabled, id, enabled).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// UpdateWatchLastRun records when a watch was last refreshed.
func (s *PostgresStore) UpdateWatchLastRun(ctx context.Context, id string, t time.Time) error {
	var got string
	err := s.pool.QueryRow(ctx, queryUpdateWatchLastRun, id, t).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func scanWatch(row rowScanner, w *domain.Watch) error {
	var platforms []string
	var locationJSON []byte
	err := row.Scan(
		&w.ID, &w.Name, &w.SearchQuery, &platforms, &locationJSON,
		&w.MaxPrice, &w.Strict, &w.Enabled, &w.LastRunAt,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("scanning watch: %w", err)
	}
	if err := json.Unmarshal(locationJSON, &w.Location); err != nil {
		return fmt.Errorf("unmarshaling location: %w", err)
	}
	w.Platforms = make([]domain.Platform, len(platforms))
	for i, p := range platforms {
		w.Platforms[i] = domain.Platform(p)
	}
	return nil
}

func platformStrings(platforms []domain.Platform) []string {
	out := make([]string, len(platforms))
	for i, p := range platforms {
		out[i] = string(p)
	}
	return out
}

// InsertJobRun records the start of a scheduled job, returning the run ID.
func (s *PostgresStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertJobRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}
	return id, nil
}

// CompleteJobRun marks a job run finished with its outcome.
func (s *PostgresStore) CompleteJobRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	rowsAffected int,
) error {
	_, err := s.pool.Exec(ctx, queryCompleteJobRun, id, status, errText, rowsAffected)
	return err
}

// ListJobRuns returns recent runs of a named job, newest first.
func (s *PostgresStore) ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.pool.Query(ctx, queryListJobRuns, jobName, limit)
	if err != nil {
		return nil, fmt.Errorf("querying job runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun
	for rows.Next() {
		var r domain.JobRun
		if err := rows.Scan(
			&r.ID, &r.JobName, &r.StartedAt, &r.CompletedAt,
			&r.Status, &r.ErrorText, &r.RowsAffected,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job runs: %w", err)
	}

	return runs, nil
}

// compile-time interface check.
var _ Store = (*PostgresStore)(nil)
