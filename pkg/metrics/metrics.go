package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	TaskListFetchCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_list_fetch_count",
			Help: "Total number of task list reconciliations",
		},
		[]string{"view", "outcome"}, // outcome: success, failed, stale
	)

	InvitePublishCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invite_publish_count",
			Help: "Total number of invitation events published",
		},
		[]string{"outcome"}, // outcome: published, logged_direct, failed
	)
)

// RecordHTTPRequestDuration records the latency of a finished HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQueryDuration records the latency of a database query.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// IncrementTaskListFetch counts one list reconciliation per view and outcome.
func IncrementTaskListFetch(view, outcome string) {
	TaskListFetchCount.WithLabelValues(view, outcome).Inc()
}

// IncrementInvitePublish counts one invitation event by outcome.
func IncrementInvitePublish(outcome string) {
	InvitePublishCount.WithLabelValues(outcome).Inc()
}
