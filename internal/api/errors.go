// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/animerec/internal/dataset"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/validation"
)

// notReadyRetryAfter is the Retry-After hint while the model is building.
const notReadyRetryAfter = 5 * time.Second

// writeEngineError maps an engine error to an API error response.
func (h *Handler) writeEngineError(rw *ResponseWriter, err error) {
	cfg := h.engine.Config()

	switch {
	case errors.Is(err, recommend.ErrInvalidCount):
		rw.ValidationError(err.Error(), map[string]interface{}{
			"field": "k",
			"min":   cfg.MinK,
			"max":   cfg.MaxK,
		})
	case errors.Is(err, recommend.ErrNotReady):
		rw.ServiceUnavailable("Recommendation model is still building, retry shortly", notReadyRetryAfter)
	case errors.Is(err, dataset.ErrDataUnavailable):
		rw.DataUnavailable("Rating data is unavailable", map[string]interface{}{"reason": err.Error()})
	case errors.Is(err, recommend.ErrEmptyMatrix):
		rw.DataUnavailable("Dataset contains no usable ratings", nil)
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body.
		rw.ServiceUnavailable("Request canceled", 0)
	default:
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("recommendation request failed")
		rw.InternalError("Failed to generate recommendations")
	}
}

// writeValidationError writes a validator failure in the API error format.
func writeValidationError(rw *ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.ValidationError(apiErr.Message, apiErr.Details)
}
