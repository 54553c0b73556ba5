// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"
	"time"
)

// ReadinessResponse is the payload of the readiness probe.
type ReadinessResponse struct {
	Ready         bool    `json:"ready"`
	Building      bool    `json:"building"`
	ModelVersion  uint64  `json:"model_version,omitempty"`
	LastError     string  `json:"last_error,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// HealthLive handles liveness probe requests.
// Returns 200 whenever the process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 once a model is published, 503 before that. The probe never
// triggers a build.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()

	statusCode := http.StatusOK
	if !st.Ready {
		statusCode = http.StatusServiceUnavailable
	}

	NewResponseWriter(w, r).Status(statusCode, ReadinessResponse{
		Ready:         st.Ready,
		Building:      st.Building,
		ModelVersion:  st.ModelVersion,
		LastError:     st.LastError,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}
