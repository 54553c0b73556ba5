// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/animerec/internal/cache"
	"github.com/tomtom215/animerec/internal/dataset"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/metrics"
)

// Build triggers recorded in reports.
const (
	TriggerLazy    = "lazy"
	TriggerWarmup  = "warmup"
	TriggerReload  = "reload"
	cacheLabel     = "recommendations"
	buildFlightKey = "build"
)

// loaded is the published state: a model and the version it was assigned.
type loaded struct {
	model   *Model
	version uint64
	source  dataset.Source
}

// Engine owns the process-wide model. The model is built lazily on first
// use, shared by every caller, and replaced only by Reload or Reset.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	source ModelSource
	logger zerolog.Logger

	group singleflight.Group

	mu          sync.RWMutex
	current     *loaded
	version     uint64
	lastErr     error
	lastErrAt   time.Time
	building    atomic.Bool
	recorder    ReportRecorder
	responses   *cache.LRU[string, *Response]
	recent      *cache.WindowCounter
	builds      atomic.Int64
	buildFails  atomic.Int64
	requests    atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// NewEngine creates a new recommendation engine reading from source.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source ModelSource, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, errors.New("model source is required")
	}

	return &Engine{
		config:    cfg,
		source:    source,
		logger:    logger.With().Str("component", "recommend").Logger(),
		responses: cache.NewLRU[string, *Response](cfg.CacheSize),
		recent:    cache.NewWindowCounter(5*time.Minute, 10),
	}, nil
}

// SetReportRecorder sets where build reports are persisted. Optional.
func (e *Engine) SetReportRecorder(r ReportRecorder) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recorder = r
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return *e.config
}

// Ready reports whether a model is published.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current != nil
}

// Model returns the current model, building it first if there is none.
// Concurrent callers share one build. A failed build is not remembered:
// the next call tries again.
//
// The build runs detached from ctx, bounded by BuildTimeout. If ctx ends
// first, Model returns an error wrapping ErrNotReady and the build carries on.
func (e *Engine) Model(ctx context.Context) (*Model, error) {
	l, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	return l.model, nil
}

func (e *Engine) load(ctx context.Context) (*loaded, error) {
	if l := e.snapshot(); l != nil {
		return l, nil
	}

	ch := e.group.DoChan(buildFlightKey, func() (interface{}, error) {
		// Another flight may have published while this one was queued.
		if l := e.snapshot(); l != nil {
			return l, nil
		}
		return e.rebuild(logging.ContextWithNewCorrelationID(context.WithoutCancel(ctx)), TriggerLazy)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*loaded), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrNotReady, ctx.Err())
	}
}

// Warm builds the model if none is published. Used at startup.
func (e *Engine) Warm(ctx context.Context) error {
	if e.Ready() {
		return nil
	}
	_, err, _ := e.group.Do(buildFlightKey, func() (interface{}, error) {
		if l := e.snapshot(); l != nil {
			return l, nil
		}
		return e.rebuild(logging.ContextWithNewCorrelationID(ctx), TriggerWarmup)
	})
	return err
}

// Reload builds a fresh model and swaps it in. On failure the previous model,
// if any, stays in service. Concurrent reloads share one build.
func (e *Engine) Reload(ctx context.Context, trigger string) error {
	if trigger == "" {
		trigger = TriggerReload
	}
	_, err, _ := e.group.Do("reload", func() (interface{}, error) {
		return e.rebuild(logging.ContextWithNewCorrelationID(ctx), trigger)
	})
	return err
}

// Reset drops the current model. The next call to Model builds a new one.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.current = nil
	e.mu.Unlock()

	e.responses.Clear()
	metrics.ResetModelGauges()
	e.logger.Info().Msg("model reset")
}

func (e *Engine) snapshot() *loaded {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// rebuild loads the tables, builds a model and publishes it.
func (e *Engine) rebuild(ctx context.Context, trigger string) (*loaded, error) {
	e.building.Store(true)
	defer e.building.Store(false)

	ctx, cancel := context.WithTimeout(ctx, e.config.BuildTimeout)
	defer cancel()

	start := time.Now()
	report := &BuildReport{
		ID:        uuid.New().String(),
		Trigger:   trigger,
		StartedAt: start,
	}
	logger := e.logger.With().
		Str("trigger", trigger).
		Str("correlation_id", logging.CorrelationIDFromContext(ctx)).
		Logger()
	logger.Info().Msg("building model")

	model, tables, err := e.buildModel(ctx)
	if tables != nil {
		report.Source = tables.Source
		report.AnimeRead = tables.AnimeStats
		report.RatingsRead = tables.RatingStats
		if tables.FallbackReason != nil {
			report.FallbackReason = tables.FallbackReason.Error()
		}
	}
	report.DurationMS = time.Since(start).Milliseconds()

	if err != nil {
		e.buildFails.Add(1)
		e.mu.Lock()
		e.lastErr = err
		e.lastErrAt = time.Now()
		e.mu.Unlock()

		metrics.RecordModelBuild(time.Since(start), 0, 0, 0, err)
		report.Error = err.Error()
		e.record(ctx, report)

		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("model build failed")
		return nil, err
	}

	e.mu.Lock()
	e.version++
	l := &loaded{model: model, version: e.version, source: tables.Source}
	e.current = l
	e.lastErr = nil
	e.lastErrAt = time.Time{}
	e.mu.Unlock()

	e.responses.Clear()
	e.builds.Add(1)

	stats := model.Stats()
	metrics.RecordModelBuild(time.Since(start), stats.Titles, stats.Users, l.version, nil)
	report.Success = true
	report.ModelVersion = l.version
	report.Build = &stats
	e.record(ctx, report)

	logger.Info().
		Uint64("version", l.version).
		Str("source", string(tables.Source)).
		Int("titles", stats.Titles).
		Int("users", stats.Users).
		Int("cells", stats.Cells).
		Int("filtered", stats.Filtered).
		Int("unmatched", stats.Unmatched).
		Int("non_finite", stats.NonFinite).
		Dur("elapsed", time.Since(start)).
		Msg("model published")

	return l, nil
}

func (e *Engine) buildModel(ctx context.Context) (*Model, *dataset.Tables, error) {
	tables, err := e.source.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, tables, err
	}
	model, err := Build(tables.Anime, tables.Ratings, e.config.Build)
	if err != nil {
		return nil, tables, fmt.Errorf("build matrices: %w", err)
	}
	return model, tables, nil
}

func (e *Engine) record(ctx context.Context, report *BuildReport) {
	e.mu.RLock()
	rec := e.recorder
	e.mu.RUnlock()
	if rec == nil {
		return
	}
	if err := rec.Record(context.WithoutCancel(ctx), report); err != nil {
		e.logger.Warn().Err(err).Str("report_id", report.ID).Msg("failed to persist build report")
	}
}

// ValidateCount checks k against the configured bounds.
func (e *Engine) ValidateCount(k int) error {
	if k < e.config.MinK || k > e.config.MaxK {
		return fmt.Errorf("%w: %d is outside [%d, %d]", ErrInvalidCount, k, e.config.MinK, e.config.MaxK)
	}
	return nil
}

// Recommend returns the k titles most similar to title. An unknown title is
// not an error: the response has Found false and no items.
func (e *Engine) Recommend(ctx context.Context, title string, k int) (*Response, error) {
	start := time.Now()
	e.requests.Add(1)
	e.recent.Add(1)

	if err := e.ValidateCount(k); err != nil {
		return nil, err
	}

	l, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	key := cacheKey(l.version, title, k)
	if cached, ok := e.responses.Get(key); ok {
		e.cacheHits.Add(1)
		metrics.RecordCacheLookup(cacheLabel, true)

		resp := *cached
		resp.Metadata.CacheHit = true
		resp.Metadata.LatencyMS = elapsedMS(start)
		metrics.RecordRecommendation(resp.Found, time.Since(start))
		return &resp, nil
	}
	e.cacheMisses.Add(1)
	metrics.RecordCacheLookup(cacheLabel, false)

	items := l.model.Recommend(title, k)
	resp := &Response{
		Title: title,
		K:     k,
		Found: l.model.Has(title),
		Items: items,
		Metadata: ResponseMetadata{
			ModelVersion: l.version,
			BuiltAt:      l.model.BuiltAt(),
			Source:       l.source,
			LatencyMS:    elapsedMS(start),
		},
	}
	e.responses.Add(key, resp)
	metrics.RecordRecommendation(resp.Found, time.Since(start))

	logging.Ctx(ctx).Debug().
		Str("title", title).
		Int("k", k).
		Bool("found", resp.Found).
		Int("returned", len(items)).
		Msg("recommendation complete")

	return resp, nil
}

// Titles returns every title in the model, sorted.
func (e *Engine) Titles(ctx context.Context) ([]string, error) {
	m, err := e.Model(ctx)
	if err != nil {
		return nil, err
	}
	return m.Titles(), nil
}

// Suggest returns up to limit titles starting with prefix.
func (e *Engine) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	m, err := e.Model(ctx)
	if err != nil {
		return nil, err
	}
	return m.Suggest(prefix, limit), nil
}

// Status returns the current engine state.
func (e *Engine) Status() Status {
	e.mu.RLock()
	l := e.current
	lastErr := e.lastErr
	lastErrAt := e.lastErrAt
	e.mu.RUnlock()

	st := Status{
		Ready:         l != nil,
		Building:      e.building.Load(),
		Builds:        e.builds.Load(),
		BuildFailures: e.buildFails.Load(),
		Requests:      e.requests.Load(),
		RecentQueries: e.recent.Count(),
		CacheHits:     e.cacheHits.Load(),
		CacheMisses:   e.cacheMisses.Load(),
		CacheSize:     e.responses.Len(),
	}
	if l != nil {
		stats := l.model.Stats()
		st.ModelVersion = l.version
		st.BuiltAt = l.model.BuiltAt()
		st.Source = l.source
		st.Stats = &stats
	}
	if lastErr != nil {
		st.LastError = lastErr.Error()
		st.LastErrorAt = lastErrAt
	}
	return st
}

func cacheKey(version uint64, title string, k int) string {
	return strconv.FormatUint(version, 10) + "|" + strconv.Itoa(k) + "|" + title
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
