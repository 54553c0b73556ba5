// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

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

	// Dataset Metrics
	DatasetLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_ratings_loads_total",
			Help: "Total number of ratings table loads by source and result",
		},
		[]string{"source", "result"}, // source: "remote", "local"; result: "success", "failure"
	)

	DatasetRowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_rows_dropped_total",
			Help: "Total number of malformed CSV rows dropped while reading",
		},
		[]string{"table"},
	)

	// Model Build Metrics
	ModelBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_model_build_duration_seconds",
			Help:    "Duration of rating and similarity matrix builds in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	ModelBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_model_builds_total",
			Help: "Total number of model builds by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	ModelTitles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_titles",
			Help: "Number of titles (rows) in the current model",
		},
	)

	ModelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_users",
			Help: "Number of users (columns) in the current model",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_version",
			Help: "Version counter of the current model (increments on every swap)",
		},
	)

	ModelLastBuild = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_last_build_timestamp",
			Help: "Unix timestamp of the last successful model build",
		},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation queries by outcome",
		},
		[]string{"outcome"}, // "found", "not_found"
	)

	RecommendationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_query_duration_seconds",
			Help:    "Time to answer a recommendation query from a built model",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	// Response Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDatasetLoad records one attempt to read the ratings table from source.
func RecordDatasetLoad(source string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	DatasetLoadsTotal.WithLabelValues(source, result).Inc()
}

// RecordRowsDropped adds n dropped rows for table. Zero is a no-op.
func RecordRowsDropped(table string, n int) {
	if n > 0 {
		DatasetRowsDropped.WithLabelValues(table).Add(float64(n))
	}
}

// RecordModelBuild records a model build. On success the model size gauges,
// version and last-build timestamp are updated as well.
func RecordModelBuild(duration time.Duration, titles, users int, version uint64, err error) {
	ModelBuildDuration.Observe(duration.Seconds())
	if err != nil {
		ModelBuildsTotal.WithLabelValues("failure").Inc()
		return
	}
	ModelBuildsTotal.WithLabelValues("success").Inc()
	ModelTitles.Set(float64(titles))
	ModelUsers.Set(float64(users))
	ModelVersion.Set(float64(version))
	ModelLastBuild.Set(float64(time.Now().Unix()))
}

// ResetModelGauges zeroes the size gauges after the model is dropped.
func ResetModelGauges() {
	ModelTitles.Set(0)
	ModelUsers.Set(0)
}

// RecordRecommendation records a recommendation query outcome.
func RecordRecommendation(found bool, duration time.Duration) {
	outcome := "not_found"
	if found {
		outcome = "found"
	}
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationLatency.Observe(duration.Seconds())
}

// RecordCacheLookup records a hit or miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// SetAppInfo publishes the build version. Called once from main.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// StartUptimeTicker updates AppUptime every interval until stop is closed.
func StartUptimeTicker(start time.Time, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			AppUptime.Set(time.Since(start).Seconds())
			select {
			case <-ticker.C:
			case <-stop:
				return
			}
		}
	}()
}
