package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garland_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "garland_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// NoteAdmissions counts note-creation attempts by outcome
	// (admitted, rejected_full, failed).
	NoteAdmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garland_note_admissions_total",
		Help: "Total note-creation attempts by admission outcome",
	}, []string{"outcome"})

	// ModerationActions counts applied moderation actions by kind.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garland_moderation_actions_total",
		Help: "Total moderation actions applied, by action kind",
	}, []string{"action"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
