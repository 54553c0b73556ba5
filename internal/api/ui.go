// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	_ "embed"

	"github.com/tomtom215/animerec/internal/dataset"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/recommend"
)

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// indexPage is the data rendered by templates/index.html.
type indexPage struct {
	Titles []string
	Counts []int

	Title string
	K     int

	Queried      bool
	Found        bool
	Items        []recommend.Recommendation
	ModelVersion uint64

	Error string
}

// Index handles GET /: the title picker and, when a title is given, its
// numbered recommendations.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	cfg := h.engine.Config()
	page := indexPage{
		Counts: countOptions(cfg.MinK, cfg.MaxK),
		K:      cfg.DefaultK,
		Title:  r.URL.Query().Get("title"),
	}

	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	titles, err := h.engine.Titles(ctx)
	if err != nil {
		h.renderIndex(w, r, pageErrorStatus(err), page, pageErrorMessage(err))
		return
	}
	page.Titles = titles

	if raw := r.URL.Query().Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil || h.engine.ValidateCount(k) != nil {
			h.renderIndex(w, r, http.StatusBadRequest, page,
				fmt.Sprintf("The number of recommendations must be between %d and %d.", cfg.MinK, cfg.MaxK))
			return
		}
		page.K = k
	}

	if page.Title == "" {
		h.renderIndex(w, r, http.StatusOK, page, "")
		return
	}

	resp, err := h.engine.Recommend(ctx, page.Title, page.K)
	if err != nil {
		h.renderIndex(w, r, pageErrorStatus(err), page, pageErrorMessage(err))
		return
	}
	page.Queried = true
	page.Found = resp.Found
	page.Items = resp.Items
	page.ModelVersion = resp.Metadata.ModelVersion

	h.renderIndex(w, r, http.StatusOK, page, "")
}

func (h *Handler) renderIndex(w http.ResponseWriter, r *http.Request, status int, page indexPage, errMsg string) {
	page.Error = errMsg
	if page.ModelVersion == 0 {
		page.ModelVersion = h.engine.Status().ModelVersion
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to render index page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func countOptions(minK, maxK int) []int {
	out := make([]int, 0, maxK-minK+1)
	for k := minK; k <= maxK; k++ {
		out = append(out, k)
	}
	return out
}

func pageErrorStatus(err error) int {
	if errors.Is(err, context.Canceled) {
		return http.StatusBadRequest
	}
	return http.StatusServiceUnavailable
}

func pageErrorMessage(err error) string {
	switch {
	case errors.Is(err, recommend.ErrNotReady):
		return "The recommendation model is still being built. Please reload this page in a moment."
	case errors.Is(err, dataset.ErrDataUnavailable), errors.Is(err, recommend.ErrEmptyMatrix):
		return "The rating data could not be loaded. Please try again later."
	default:
		return "Recommendations are unavailable right now."
	}
}
