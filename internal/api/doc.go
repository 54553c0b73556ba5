// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package api provides the HTTP surface of Animerec: a JSON API under /api/v1
and a single HTML page at /.

# Routes

	GET  /                         title picker and numbered recommendations
	GET  /api/v1/health/live       liveness probe
	GET  /api/v1/health/ready      readiness probe (200 once a model is loaded)
	GET  /api/v1/titles            all titles, or ?q=prefix&limit=n suggestions
	GET  /api/v1/recommendations   ?title=...&k=n
	GET  /api/v1/status            engine state and counters
	GET  /api/v1/builds            persisted build reports, newest first
	POST /api/v1/reload            rebuild the model (?wait=true blocks)
	GET  /metrics                  Prometheus metrics

# Response Envelope

Every JSON response uses the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3, "count": 5}
	}

/api/v1/builds also sets meta.total, the number of reports stored.

Errors carry a machine-readable code instead of data:

	{
	  "success": false,
	  "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}},
	  "meta": {...}
	}

An unknown title is not an error. /api/v1/recommendations answers 200 with
"found": false and an empty item list, and the HTML page shows a
not-found notice.

# Middleware

Global: request ID, real IP, panic recovery, access log, CORS.
API routes add rate limiting (go-chi/httprate), security headers,
Prometheus request metrics and gzip compression.
*/
package api
