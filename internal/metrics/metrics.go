// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

// Package metrics provides Prometheus instrumentation for LikeMinds:
// API latency and throughput, upstream Bluesky calls, like-store cache
// efficiency, ingestion progress and recommendation pipeline timing.
// All collectors register on the default registry via promauto and are
// exposed at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Upstream Bluesky client metrics
	BlueskyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bluesky_requests_total",
			Help: "Total number of upstream Bluesky XRPC requests",
		},
		[]string{"endpoint", "outcome"}, // outcome: "ok", "error", "rate_limited", "breaker_open"
	)

	BlueskyRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bluesky_request_duration_seconds",
			Help:    "Upstream Bluesky request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	BlueskyBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bluesky_breaker_open",
			Help: "1 when the upstream circuit breaker is open, 0 otherwise",
		},
	)

	// Like-store metrics
	StoreHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "likestore_hits_total",
			Help: "Total number of like-set snapshot store hits",
		},
	)

	StoreMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "likestore_misses_total",
			Help: "Total number of like-set snapshot store misses",
		},
	)

	// Ingestion metrics
	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_duration_seconds",
			Help:    "Duration of like-graph ingestion runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	IngestUsersFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_users_fetched_total",
			Help: "Total number of users whose like sets were fetched",
		},
	)

	IngestRecordsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_records_dropped_total",
			Help: "Total number of malformed like records dropped",
		},
	)

	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_errors_total",
			Help: "Total number of ingestion errors",
		},
		[]string{"stage"}, // "resolve", "likes", "likers", "follows", "store"
	)

	// Recommendation pipeline metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation computations",
		},
		[]string{"status"}, // "ok", "no_like_history", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Recommendation pipeline duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_candidate_pool_size",
			Help:    "Candidate pool size per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Total number of recommendation response cache hits",
		},
	)
)

// RecordAPIRequest records an API request's outcome and duration.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordBlueskyRequest records an upstream XRPC request.
func RecordBlueskyRequest(endpoint, outcome string, duration time.Duration) {
	BlueskyRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	BlueskyRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records one recommendation computation.
func RecordRecommendation(status string, candidates int, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(status).Inc()
	RecommendCandidates.Observe(float64(candidates))
	RecommendDuration.Observe(duration.Seconds())
}
