// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/metrics"
)

// Fetcher retrieves the ratings table from a remote location.
type Fetcher interface {
	Fetch(ctx context.Context, url string) FetchResult
}

// LoaderConfig names the table locations.
type LoaderConfig struct {
	AnimePath   string
	RatingsPath string

	// RatingsURL is tried before RatingsPath when set.
	RatingsURL string
}

// Loader reads both tables, choosing the ratings source.
type Loader struct {
	cfg     LoaderConfig
	fetcher Fetcher
	logger  zerolog.Logger
}

// NewLoader creates a Loader. fetcher may be nil when no URL is configured.
func NewLoader(cfg LoaderConfig, fetcher Fetcher) *Loader {
	return &Loader{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logging.WithComponent("dataset"),
	}
}

// Load reads the anime table and the ratings table. The ratings table is
// fetched from RatingsURL once and, if that fails, read from RatingsPath once.
// If no source succeeds the error wraps ErrDataUnavailable.
func (l *Loader) Load(ctx context.Context) (*Tables, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	anime, animeStats, err := LoadAnimeFile(l.cfg.AnimePath)
	if err != nil {
		return nil, fmt.Errorf("%w: anime table %s: %w", ErrDataUnavailable, l.cfg.AnimePath, err)
	}
	metrics.RecordRowsDropped("anime", animeStats.Dropped)

	tables := &Tables{
		Anime:      anime,
		AnimeStats: animeStats,
	}

	var remoteErr error
	if l.cfg.RatingsURL != "" && l.fetcher != nil {
		res := l.fetcher.Fetch(ctx, l.cfg.RatingsURL)
		metrics.RecordDatasetLoad(string(SourceRemote), res.Err)
		if res.OK() {
			metrics.RecordRowsDropped("ratings", res.Stats.Dropped)
			tables.Ratings = res.Ratings
			tables.RatingStats = res.Stats
			tables.Source = SourceRemote
			tables.LoadedAt = time.Now()
			l.logLoaded(ctx, tables, res.Elapsed)
			return tables, nil
		}
		remoteErr = res.Err
		logging.Ctx(ctx).Warn().Err(res.Err).Str("url", l.cfg.RatingsURL).
			Msg("Remote ratings fetch failed, falling back to local file")
	}

	if l.cfg.RatingsPath == "" {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, orNoSource(remoteErr))
	}

	start := time.Now()
	ratings, stats, err := LoadRatingsFile(l.cfg.RatingsPath)
	metrics.RecordDatasetLoad(string(SourceLocal), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, errors.Join(remoteErr, err))
	}
	metrics.RecordRowsDropped("ratings", stats.Dropped)

	tables.Ratings = ratings
	tables.RatingStats = stats
	tables.Source = SourceLocal
	tables.FallbackReason = remoteErr
	tables.LoadedAt = time.Now()
	l.logLoaded(ctx, tables, time.Since(start))
	return tables, nil
}

func (l *Loader) logLoaded(ctx context.Context, t *Tables, elapsed time.Duration) {
	logger := l.logger.With().Logger()
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		logger = logger.With().Str("correlation_id", id).Logger()
	}
	logger.Info().
		Str("source", string(t.Source)).
		Int("anime", len(t.Anime)).
		Int("ratings", len(t.Ratings)).
		Int("anime_dropped", t.AnimeStats.Dropped).
		Int("ratings_dropped", t.RatingStats.Dropped).
		Dur("elapsed", elapsed).
		Msg("Dataset loaded")
}

func orNoSource(err error) error {
	if err != nil {
		return err
	}
	return errors.New("no ratings source configured")
}
