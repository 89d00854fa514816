// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Recommendation outcomes and latency
// - Price resolution per strategy
// - Model bundle readiness
// - Prediction history persistence

var (
	// API Endpoint Metrics
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
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crop_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // "success", "cache_hit", "invalid_category", "not_ready", "empty", "error"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crop_recommendation_duration_seconds",
			Help:    "Time spent producing a recommendation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crop_recommendation_candidates",
			Help:    "Number of crops above the suitability floor per request",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50, 100},
		},
	)

	PriceResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crop_price_resolutions_total",
			Help: "Total number of crop price resolutions by source strategy",
		},
		[]string{"source"},
	)

	// Model Metrics
	ModelBundleLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crop_model_bundle_loaded",
			Help: "1 when the model bundle is loaded and serving, 0 otherwise",
		},
	)

	ModelBundleLoadAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crop_model_bundle_load_attempts_total",
			Help: "Total number of model bundle load attempts",
		},
		[]string{"result"},
	)

	// History Metrics
	HistoryRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crop_history_records_total",
			Help: "Total number of prediction history records by stage and result",
		},
		[]string{"stage", "result"}, // stage: "publish", "persist"
	)

	HistoryGCRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crop_history_gc_runs_total",
			Help: "Total number of history store value log GC runs",
		},
	)
)

// RecordAPIRequest records an API request with its duration and status code.
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

// RecordRateLimitHit records a rate limit rejection.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRecommendation records the outcome of a recommendation request.
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordCandidates records how many crops passed the suitability floor.
func RecordCandidates(n int) {
	RecommendationCandidates.Observe(float64(n))
}

// RecordPriceResolution records which strategy resolved a crop price.
func RecordPriceResolution(source string) {
	PriceResolutions.WithLabelValues(source).Inc()
}

// SetModelLoaded updates the model readiness gauge.
func SetModelLoaded(loaded bool) {
	if loaded {
		ModelBundleLoaded.Set(1)
	} else {
		ModelBundleLoaded.Set(0)
	}
}

// RecordModelLoadAttempt records a bundle load attempt.
func RecordModelLoadAttempt(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ModelBundleLoadAttempts.WithLabelValues(result).Inc()
}

// RecordHistory records a history pipeline step.
func RecordHistory(stage string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	HistoryRecordsTotal.WithLabelValues(stage, result).Inc()
}

// RecordHistoryGC records a value log GC run.
func RecordHistoryGC() {
	HistoryGCRuns.Inc()
}
