package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Comparison queries.
const (
	queryInsertComparison = `
		INSERT INTO comparisons (
			search_query, run_at, total_products, matched_products, location, products
		) VALUES (
			@search_query, @run_at, @total_products, @matched_products, @location, @products
		)
		RETURNING id`

	queryGetComparison = `
		SELECT id, search_query, run_at, total_products, matched_products, location, products
		FROM comparisons
		WHERE id = $1`

	queryLatestComparison = `
		SELECT id, search_query, run_at, total_products, matched_products, location, products
		FROM comparisons
		WHERE search_query = $1
		ORDER BY run_at DESC
		LIMIT 1`
)

// Watch queries.
const (
	queryCreateWatch = `
		INSERT INTO watches (
			name, search_query, platforms, location, max_price, strict, enabled
		) VALUES (
			@name, @search_query, @platforms, @location, @max_price, @strict, @enabled
		)
		RETURNING id, created_at, updated_at`

	queryGetWatch = `
		SELECT id, name, search_query, platforms, location, max_price, strict,
			enabled, last_run_at, created_at, updated_at
		FROM watches
		WHERE id = $1`

	queryListWatchesAll = `
		SELECT id, name, search_query, platforms, location, max_price, strict,
			enabled, last_run_at, created_at, updated_at
		FROM watches
		ORDER BY created_at`

	queryListWatchesEnabled = `
		SELECT id, name, search_query, platforms, location, max_price, strict,
			enabled, last_run_at, created_at, updated_at
		FROM watches
		WHERE enabled = true
		ORDER BY created_at`

	queryUpdateWatch = `
		UPDATE watches SET
			name = @name,
			search_query = @search_query,
			platforms = @platforms,
			location = @location,
			max_price = @max_price,
			strict = @strict,
			enabled = @enabled,
			updated_at = now()
		WHERE id = @id
		RETURNING updated_at`

	queryDeleteWatch = `DELETE FROM watches WHERE id = $1`

	querySetWatchEnabled = `
		UPDATE watches SET enabled = $2, updated_at = now()
		WHERE id = $1
		RETURNING id`

	queryUpdateWatchLastRun = `
		UPDATE watches SET last_run_at = $2
		WHERE id = $1
		RETURNING id`
)

// Job run queries.
const (
	queryInsertJobRun = `
		INSERT INTO job_runs (job_name, started_at, status)
		VALUES ($1, now(), 'running')
		RETURNING id`

	queryCompleteJobRun = `
		UPDATE job_runs SET
			completed_at = now(),
			status = $2,
			error_text = NULLIF($3, ''),
			rows_affected = $4
		WHERE id = $1`

	queryListJobRuns = `
		SELECT id, job_name, started_at, completed_at, status,
			COALESCE(error_text, ''), rows_affected
		FROM job_runs
		WHERE job_name = $1
		ORDER BY started_at DESC
		LIMIT $2`
)
