// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/animerec/internal/logging"
)

func TestRequestID_GeneratesNewID(t *testing.T) {
	var capturedID, correlationID string
	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		capturedID = GetRequestID(r)
		correlationID = logging.CorrelationIDFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	responseID := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("Response X-Request-ID is not a valid UUID: %v", err)
	}
	if capturedID != responseID {
		t.Errorf("Context ID (%s) doesn't match response header ID (%s)", capturedID, responseID)
	}
	if correlationID == "" {
		t.Error("Expected correlation ID in context")
	}
}

func TestRequestID_UpstreamIDs(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"uuid", uuid.New().String(), true},
		{"proxy style", "req_01.abc-XYZ", true},
		{"too long", strings.Repeat("a", maxRequestIDLength+1), false},
		{"max length", strings.Repeat("a", maxRequestIDLength), true},
		{"spaces", "has spaces", false},
		{"newline", "abc\ndef", false},
		{"unicode", "idé", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured string
			handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
				captured = GetRequestID(r)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(RequestIDHeader, tt.incoming)
			rec := httptest.NewRecorder()
			handler(rec, req)

			kept := rec.Header().Get(RequestIDHeader) == tt.incoming
			if kept != tt.keep {
				t.Errorf("kept = %v, want %v", kept, tt.keep)
			}
			if captured != rec.Header().Get(RequestIDHeader) {
				t.Error("context and header IDs differ")
			}
		})
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {})

	ids := make(map[string]bool)
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
		id := rec.Header().Get(RequestIDHeader)
		if ids[id] {
			t.Errorf("Duplicate request ID generated: %s", id)
		}
		ids[id] = true
	}
}

func TestGetRequestID_WithoutMiddleware(t *testing.T) {
	if id := GetRequestID(httptest.NewRequest(http.MethodGet, "/test", nil)); id != "" {
		t.Errorf("Expected empty string when no request ID in context, got: %s", id)
	}
}
