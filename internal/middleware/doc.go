// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package middleware provides HTTP middleware components for the application.

Key Components:

  - RequestID: request and correlation IDs for log grouping
  - AccessLog: one log line per request, warn level above a slow threshold
  - PrometheusMetrics: request count, latency and in-flight instrumentation
  - Compression: gzip for responses of 1KB or more

All middleware use the http.HandlerFunc signature. The API router adapts
them to chi with a small wrapper:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.AccessLog(time.Second)))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.Compression))

Metric Labels:

PrometheusMetrics and AccessLog label requests by chi route pattern
("/api/v1/recommendations"), so arbitrary client paths cannot grow label
cardinality. Requests that match no route are labelled "unmatched".

Compression Details:

The compression middleware buffers the first 1KB of a response. Smaller
bodies are sent as-is; larger ones are gzipped with a pooled writer and get
Content-Encoding and Vary headers. Responses that already carry a
Content-Encoding, HEAD requests and bodiless statuses pass through.

Thread Safety:

All middleware are safe for concurrent use. Per-request state lives in the
wrapped ResponseWriter and the request context.
*/
package middleware
