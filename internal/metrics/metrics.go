// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_recommend_requests_total",
			Help: "Recommendation requests by strategy and outcome",
		},
		[]string{"strategy", "outcome"}, // outcome: ok, cached, empty, error, invalid
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fuze_recommend_duration_seconds",
			Help:    "End-to-end recommendation latency",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fuze_recommend_candidates",
			Help:    "Number of candidates scored per request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	ProfileBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_profile_builds_total",
			Help: "Interest profile lookups by source",
		},
		[]string{"source"}, // cache, built, empty
	)

	DashboardBranchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_dashboard_branch_failures_total",
			Help: "Dashboard fan-out branches that degraded to a default value",
		},
		[]string{"branch"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_cache_hits_total",
			Help: "Cache hits by tier",
		},
		[]string{"tier"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_cache_misses_total",
			Help: "Cache misses by tier",
		},
		[]string{"tier"},
	)

	CacheBackendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_cache_backend_errors_total",
			Help: "Cache backend failures swallowed and treated as misses",
		},
		[]string{"tier", "operation"},
	)

	// Quota Metrics
	QuotaDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_quota_decisions_total",
			Help: "Quota check results by subject kind and resulting state",
		},
		[]string{"subject", "state"},
	)

	QuotaTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_quota_transitions_total",
			Help: "Quota state machine transitions",
		},
		[]string{"from", "to"},
	)

	QuotaRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_quota_recorded_calls_total",
			Help: "Successful AI calls counted against a quota",
		},
		[]string{"subject"},
	)

	// Credential Metrics
	CredentialOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_credential_operations_total",
			Help: "Credential store operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// Enrichment Metrics
	EnrichmentCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_enrichment_calls_total",
			Help: "AI provider calls by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	EnrichmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fuze_enrichment_duration_seconds",
			Help:    "AI provider call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"kind"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fuze_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuze_api_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fuze_api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fuze_api_active_requests",
			Help: "In-flight HTTP requests",
		},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fuze_app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordRecommend records one engine call.
func RecordRecommend(strategy, outcome string, duration time.Duration) {
	RecommendRequests.WithLabelValues(strategy, outcome).Inc()
	RecommendDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordCacheLookup records a hit or a miss for the given tier.
func RecordCacheLookup(tier string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(tier).Inc()
		return
	}
	CacheMisses.WithLabelValues(tier).Inc()
}

// RecordEnrichment records an AI provider call.
func RecordEnrichment(kind string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	EnrichmentCalls.WithLabelValues(kind, outcome).Inc()
	EnrichmentDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordAPIRequest records an HTTP request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// BreakerStateValue maps a gobreaker state name to the gauge value.
func BreakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}
