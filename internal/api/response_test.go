// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/animerec/internal/logging"
)

func TestResponseWriter_Success(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-1"))
	w := httptest.NewRecorder()

	NewResponseWriter(w, req).Success(map[string]string{"hello": "world"})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	env := decodeEnvelope(t, w)
	if !env.Success || env.Error != nil {
		t.Errorf("envelope = %+v", env)
	}
	if env.Meta == nil || env.Meta.RequestID != "req-1" || env.Meta.Count != nil {
		t.Errorf("meta = %+v", env.Meta)
	}
}

func TestResponseWriter_UnencodableData(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	NewResponseWriter(w, req).Success(map[string]float64{"score": math.NaN()})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Success || env.Error == nil || env.Error.Code != ErrCodeInternalError {
		t.Errorf("envelope = %+v, want INTERNAL_ERROR", env)
	}
}

func TestResponseWriter_Errors(t *testing.T) {
	tests := []struct {
		name       string
		write      func(rw *ResponseWriter)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(rw *ResponseWriter) { rw.BadRequest("bad") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"not found", func(rw *ResponseWriter) { rw.NotFound("gone") }, http.StatusNotFound, ErrCodeNotFound},
		{"method", func(rw *ResponseWriter) { rw.MethodNotAllowed() }, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
		{"internal", func(rw *ResponseWriter) { rw.InternalError("oops") }, http.StatusInternalServerError, ErrCodeInternalError},
		{"data", func(rw *ResponseWriter) { rw.DataUnavailable("no data", nil) }, http.StatusServiceUnavailable, ErrCodeDataUnavailable},
		{"validation", func(rw *ResponseWriter) { rw.ValidationError("k", nil) }, http.StatusBadRequest, ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(NewResponseWriter(w, httptest.NewRequest(http.MethodGet, "/", nil)))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			env := decodeEnvelope(t, w)
			if env.Success {
				t.Error("success = true for an error")
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestSetRetryAfter(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, ""},
		{-time.Second, ""},
		{500 * time.Millisecond, "1"},
		{5 * time.Second, "5"},
		{time.Minute + time.Millisecond, "61"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		setRetryAfter(w, tt.d)
		if got := w.Header().Get("Retry-After"); got != tt.want {
			t.Errorf("setRetryAfter(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
