// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/animerec/internal/recommend"
)

// ReportLister lists persisted build reports, newest first.
type ReportLister interface {
	List(ctx context.Context, limit int) ([]recommend.BuildReport, error)
	Count(ctx context.Context) (int, error)
}

// HandlerConfig tunes request handling.
type HandlerConfig struct {
	// QueryTimeout bounds how long a request waits for the model.
	QueryTimeout time.Duration

	// ReloadInterval is the minimum spacing between accepted reloads.
	// Zero disables throttling.
	ReloadInterval time.Duration

	// Version is reported by the status endpoint.
	Version string
}

// DefaultHandlerConfig returns a 10s query timeout and one reload per 30s.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		QueryTimeout:   10 * time.Second,
		ReloadInterval: 30 * time.Second,
		Version:        "dev",
	}
}

// Handler serves the recommendation API and the HTML page.
type Handler struct {
	engine  *recommend.Engine
	reports ReportLister
	config  HandlerConfig

	reloadLimiter *rate.Limiter
	reloads       sync.WaitGroup
	startTime     time.Time
}

// NewHandler creates a handler serving engine. reports may be nil, in which
// case the build history endpoint returns an empty list.
func NewHandler(engine *recommend.Engine, reports ReportLister, cfg HandlerConfig) (*Handler, error) {
	if engine == nil {
		return nil, errors.New("engine is required")
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = DefaultHandlerConfig().QueryTimeout
	}

	limit := rate.Inf
	if cfg.ReloadInterval > 0 {
		limit = rate.Every(cfg.ReloadInterval)
	}

	return &Handler{
		engine:        engine,
		reports:       reports,
		config:        cfg,
		reloadLimiter: rate.NewLimiter(limit, 1),
		startTime:     time.Now(),
	}, nil
}

// Wait blocks until background reloads started by the handler finish.
func (h *Handler) Wait() {
	h.reloads.Wait()
}

// queryContext bounds a request's wait for the model.
func (h *Handler) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.config.QueryTimeout)
}
