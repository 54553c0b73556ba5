// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/validation"
)

const (
	defaultBuildsLimit = 20
	defaultTitlesLimit = 20
)

// TitlesResponse lists titles known to the model.
type TitlesResponse struct {
	Titles []string `json:"titles"`
	Query  string   `json:"query,omitempty"`
}

// StatusResponse is the payload of GET /api/v1/status.
type StatusResponse struct {
	Engine        recommend.Status `json:"engine"`
	Version       string           `json:"version"`
	UptimeSeconds float64          `json:"uptime_seconds"`
	DefaultK      int              `json:"default_k"`
	MinK          int              `json:"min_k"`
	MaxK          int              `json:"max_k"`
}

// ReloadResponse describes an accepted or completed reload.
type ReloadResponse struct {
	Status       string `json:"status"` // "reloading" or "reloaded"
	ModelVersion uint64 `json:"model_version,omitempty"`
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Titles handles GET /api/v1/titles.
// Without q it returns every title, sorted. With q it returns up to limit
// titles starting with q, ignoring case.
func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, ok := intParam(r, "limit", defaultTitlesLimit)
	if !ok {
		rw.ValidationError("limit must be an integer", map[string]interface{}{"field": "limit"})
		return
	}
	req := validation.SuggestRequest{Prefix: r.URL.Query().Get("q"), Limit: limit}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeValidationError(rw, verr)
		return
	}

	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	var (
		titles []string
		err    error
	)
	if req.Prefix == "" {
		titles, err = h.engine.Titles(ctx)
	} else {
		titles, err = h.engine.Suggest(ctx, req.Prefix, req.Limit)
	}
	if err != nil {
		h.writeEngineError(rw, err)
		return
	}

	rw.SuccessList(TitlesResponse{Titles: titles, Query: req.Prefix}, len(titles))
}

// Recommendations handles GET /api/v1/recommendations?title=&k=.
// An unknown title answers 200 with found=false and no items.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	k, ok := intParam(r, "k", h.engine.Config().DefaultK)
	if !ok {
		rw.ValidationError("k must be an integer", map[string]interface{}{"field": "k"})
		return
	}
	req := validation.RecommendRequest{Title: r.URL.Query().Get("title"), K: k}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeValidationError(rw, verr)
		return
	}

	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	resp, err := h.engine.Recommend(ctx, req.Title, req.K)
	if err != nil {
		h.writeEngineError(rw, err)
		return
	}

	rw.SuccessList(resp, len(resp.Items))
}

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	cfg := h.engine.Config()
	NewResponseWriter(w, r).Success(StatusResponse{
		Engine:        h.engine.Status(),
		Version:       h.config.Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		DefaultK:      cfg.DefaultK,
		MinK:          cfg.MinK,
		MaxK:          cfg.MaxK,
	})
}

// Builds handles GET /api/v1/builds?limit=, newest first. meta.total is
// the number of stored reports.
func (h *Handler) Builds(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, ok := intParam(r, "limit", defaultBuildsLimit)
	if !ok {
		rw.ValidationError("limit must be an integer", map[string]interface{}{"field": "limit"})
		return
	}
	req := validation.ListRequest{Limit: limit}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeValidationError(rw, verr)
		return
	}

	if h.reports == nil {
		rw.SuccessPage([]recommend.BuildReport{}, 0, 0)
		return
	}

	reports, err := h.reports.List(r.Context(), req.Limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to list build reports")
		rw.InternalError("Failed to list build reports")
		return
	}
	total, err := h.reports.Count(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to count build reports")
		rw.InternalError("Failed to count build reports")
		return
	}

	rw.SuccessPage(reports, len(reports), total)
}

// Reload handles POST /api/v1/reload: the explicit cache clear.
// The rebuild runs in the background and the call returns 202; with
// ?wait=true it returns once the new model is published. Reloads are
// throttled to one per ReloadInterval.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	wait := false
	if raw := r.URL.Query().Get("wait"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			rw.ValidationError("wait must be a boolean", map[string]interface{}{"field": "wait"})
			return
		}
		wait = parsed
	}

	if !h.reloadLimiter.Allow() {
		rw.TooManyRequests("Reload requested too recently", h.config.ReloadInterval)
		return
	}

	logger := logging.Ctx(r.Context())
	logger.Info().Bool("wait", wait).Msg("model reload requested")

	if wait {
		if err := h.engine.Reload(r.Context(), recommend.TriggerReload); err != nil {
			h.writeEngineError(rw, err)
			return
		}
		rw.Success(ReloadResponse{Status: "reloaded", ModelVersion: h.engine.Status().ModelVersion})
		return
	}

	ctx := context.WithoutCancel(r.Context())
	h.reloads.Add(1)
	go func() {
		defer h.reloads.Done()
		if err := h.engine.Reload(ctx, recommend.TriggerReload); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("background reload failed, previous model kept")
		}
	}()

	rw.Accepted(ReloadResponse{Status: "reloading"})
}
