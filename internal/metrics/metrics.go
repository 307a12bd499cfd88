// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/soundhub-friends/internal/recommend"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friends_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "friends_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "friends_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "friends_db_query_duration_seconds",
			Help:    "Duration of preference store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friends_db_query_errors_total",
			Help: "Total number of preference store query errors",
		},
		[]string{"operation"},
	)

	// Recommendation Metrics
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "friends_recommend_duration_seconds",
			Help:    "End-to-end time to answer a potential friends query",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	RecommendResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "friends_recommend_results",
			Help:    "Number of neighbors returned per successful query",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	RecommendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friends_recommend_errors_total",
			Help: "Failed potential friends queries by reason",
		},
		[]string{"reason"},
	)

	SnapshotUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "friends_snapshot_users",
			Help: "Users in the most recently encoded preference snapshot",
		},
	)

	SnapshotGenres = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "friends_snapshot_genres",
			Help: "Distinct genres in the most recently encoded preference snapshot",
		},
	)

	// Snapshot Cache Metrics
	SnapshotCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "friends_snapshot_cache_hits_total",
			Help: "Snapshot reads served from cache",
		},
	)

	SnapshotCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "friends_snapshot_cache_misses_total",
			Help: "Snapshot reads that went to the store",
		},
	)

	SnapshotCacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "friends_snapshot_cache_invalidations_total",
			Help: "Explicit snapshot cache invalidations",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "friends_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friends_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Metrics
	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friends_events_processed_total",
			Help: "Messages handled by the event responder",
		},
		[]string{"topic", "outcome"},
	)
)

// RecordDBQuery records a store query.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSnapshotCache records a cache hit or miss.
func RecordSnapshotCache(hit bool) {
	if hit {
		SnapshotCacheHits.Inc()
	} else {
		SnapshotCacheMisses.Inc()
	}
}

// RecordCircuitBreakerTransition records a state change. States follow
// gobreaker's String() names.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordEvent records a handled message.
func RecordEvent(topic, outcome string) {
	EventsProcessed.WithLabelValues(topic, outcome).Inc()
}

// RecommendRecorder implements recommend.Recorder on the package collectors.
type RecommendRecorder struct{}

var _ recommend.Recorder = RecommendRecorder{}

// ObserveSnapshot sets the snapshot size gauges.
func (RecommendRecorder) ObserveSnapshot(users, genres int) {
	SnapshotUsers.Set(float64(users))
	SnapshotGenres.Set(float64(genres))
}

// ObserveRecommendation records latency and either the result size or the
// failure reason.
func (RecommendRecorder) ObserveRecommendation(elapsed time.Duration, results int, err error) {
	RecommendDuration.Observe(elapsed.Seconds())
	if err != nil {
		RecommendErrors.WithLabelValues(recommend.ErrorReason(err)).Inc()
		return
	}
	RecommendResults.Observe(float64(results))
}
