// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/animerec/internal/logging"
)

// DefaultSlowRequestThreshold is the duration above which AccessLog logs a
// request at warn level.
const DefaultSlowRequestThreshold = time.Second

// AccessLog writes one log line per request. Requests slower than
// slowThreshold are logged at warn level, the rest at debug.
// A zero slowThreshold uses DefaultSlowRequestThreshold.
func AccessLog(slowThreshold time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next(wrapper, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())
			event := logger.Debug()
			msg := "request completed"
			if duration > slowThreshold {
				event = logger.Warn()
				msg = "slow request detected"
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", wrapper.statusCode).
				Int("bytes", wrapper.bytes).
				Dur("duration", duration).
				Msg(msg)
		}
	}
}
