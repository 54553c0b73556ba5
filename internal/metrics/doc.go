// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router:

	curl http://localhost:8501/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Dataset Metrics:
  - dataset_ratings_loads_total: Ratings loads (counter)
    Labels: source (remote, local), result (success, failure)
  - dataset_rows_dropped_total: Malformed CSV rows dropped (counter)
    Labels: table

Model Metrics:
  - recommend_model_build_duration_seconds: Build latency (histogram)
  - recommend_model_builds_total: Builds by result (counter)
  - recommend_model_titles, recommend_model_users: Model size (gauges)
  - recommend_model_version: Swap counter of the live model (gauge)
  - recommend_model_last_build_timestamp: Unix time of last success (gauge)

Query Metrics:
  - recommend_requests_total: Queries by outcome (found, not_found)
  - recommend_query_duration_seconds: Query latency (histogram)
  - cache_hits_total, cache_misses_total: Response cache lookups
    Labels: cache

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_consecutive_failures
  - circuit_breaker_state_transitions_total

# Example Alerts

	groups:
	  - name: animerec
	    rules:
	      - alert: RatingsSourceCircuitOpen
	        expr: circuit_breaker_state{name="ratings-remote"} == 2
	        for: 5m
	      - alert: ModelBuildFailing
	        expr: increase(recommend_model_builds_total{result="failure"}[15m]) > 0

# Thread Safety

All functions are safe for concurrent use; the Prometheus client handles
synchronization internally.
*/
package metrics
