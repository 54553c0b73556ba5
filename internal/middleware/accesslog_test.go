// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/logging"
)

// captureLogs routes the global logger into a buffer for the test duration.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logging.Logger()
	prevLevel := logging.GetLevel()
	logging.SetLogger(logging.NewTestLogger(&buf))
	logging.SetLevelString("debug")
	t.Cleanup(func() {
		logging.SetLogger(prev)
		logging.SetLevelString(prevLevel.String())
	})
	return &buf
}

func TestAccessLog(t *testing.T) {
	buf := captureLogs(t)

	handler := RequestID(AccessLog(0)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	handler(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	checks := map[string]interface{}{
		"level":      "debug",
		"message":    "request completed",
		"method":     "GET",
		"path":       "/api/v1/nope",
		"route":      unmatchedEndpoint,
		"status":     float64(404),
		"bytes":      float64(7),
		"request_id": "abc-123",
	}
	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("log[%s] = %v, want %v", k, entry[k], want)
		}
	}
}

func TestAccessLog_SlowRequest(t *testing.T) {
	buf := captureLogs(t)

	handler := AccessLog(time.Millisecond)(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	})
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/slow", nil))

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "slow request detected") {
		t.Errorf("expected slow request warning, got %q", out)
	}
}
