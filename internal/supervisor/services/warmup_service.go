// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// ModelWarmer builds the recommendation model if none is loaded.
// *recommend.Engine satisfies it.
type ModelWarmer interface {
	Warm(ctx context.Context) error
}

// WarmupService builds the model once at startup so the first request
// does not wait for the dataset load.
//
// It runs exactly once. A failed warm-up is logged and not retried: the
// engine builds lazily on the next request instead.
type WarmupService struct {
	warmer  ModelWarmer
	timeout time.Duration
	logger  zerolog.Logger
	name    string
}

// NewWarmupService creates a warm-up service. timeout bounds the build;
// zero means no bound beyond the engine's own build timeout.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewWarmupService(warmer ModelWarmer, timeout time.Duration, logger zerolog.Logger) *WarmupService {
	return &WarmupService{
		warmer:  warmer,
		timeout: timeout,
		logger:  logger.With().Str("service", "model-warmup").Logger(),
		name:    "model-warmup",
	}
}

// Serve implements suture.Service. It always returns suture.ErrDoNotRestart
// so the supervisor drops the service once the warm-up is done, unless ctx
// ended first.
func (s *WarmupService) Serve(ctx context.Context) error {
	warmCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		warmCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Info().Msg("warming recommendation model")

	if err := s.warmer.Warm(warmCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn().Err(err).
			Dur("elapsed", time.Since(start)).
			Msg("model warm-up failed, the first request will retry the build")
		return suture.ErrDoNotRestart
	}

	s.logger.Info().Dur("elapsed", time.Since(start)).Msg("model warm-up complete")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer.
func (s *WarmupService) String() string {
	return s.name
}
