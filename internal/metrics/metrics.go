// Package metrics defines Prometheus metrics for basketwatch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "basketd"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Source fan-out metrics.
var (
	SourceFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "source_fetch_duration_seconds",
		Help:      "Duration of per-platform source fetches in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"platform"})

	SourceRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_records_total",
		Help:      "Total number of raw product records fetched per platform.",
	}, []string{"platform"})

	SourceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_errors_total",
		Help:      "Total number of source fetch failures per platform.",
	}, []string{"platform"})
)

// Matching metrics.
var (
	MatchingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "matching_duration_seconds",
		Help:      "Duration of one grouping run in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	MatchedGroupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matched_groups_total",
		Help:      "Total number of multi-platform groups produced.",
	})

	UnmatchedGroupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unmatched_groups_total",
		Help:      "Total number of single-platform groups produced.",
	})

	DedupeMergesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dedupe_merges_total",
		Help:      "Total number of group merges performed by the dedupe pass.",
	})

	SimilarityDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "similarity_distribution",
		Help:      "Distribution of accepted match similarity scores.",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11), // 0.0, 0.1, ..., 1.0
	})
)

// Health probe gauges.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded.",
	})
)

// Watch and alert metrics.
var (
	WatchRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "watch_runs_total",
		Help:      "Total number of scheduled watch refreshes.",
	})

	AlertsFiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_fired_total",
		Help:      "Total number of price alerts fired.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})
)
