// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/dataset"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/recommend"
)

// fixtureTitles are the names in fixtureTables, sorted.
var fixtureTitles = []string{"Bleach", "Cowboy Bebop", "Death Note", "Monster", "Naruto", "One Piece"}

func fixtureTables() *dataset.Tables {
	anime := []dataset.Anime{
		{ID: 1, Name: "Naruto"},
		{ID: 2, Name: "Bleach"},
		{ID: 3, Name: "One Piece"},
		{ID: 4, Name: "Death Note"},
		{ID: 5, Name: "Monster"},
		{ID: 6, Name: "Cowboy Bebop"},
	}
	ratings := []dataset.Rating{
		{UserID: 1, AnimeID: 1, Rating: 9}, {UserID: 1, AnimeID: 2, Rating: 8}, {UserID: 1, AnimeID: 3, Rating: 7},
		{UserID: 2, AnimeID: 1, Rating: 8}, {UserID: 2, AnimeID: 2, Rating: 9}, {UserID: 2, AnimeID: 4, Rating: 6},
		{UserID: 3, AnimeID: 4, Rating: 10}, {UserID: 3, AnimeID: 5, Rating: 9}, {UserID: 3, AnimeID: 6, Rating: 5},
		{UserID: 4, AnimeID: 5, Rating: 8}, {UserID: 4, AnimeID: 6, Rating: 9}, {UserID: 4, AnimeID: 3, Rating: 4},
		{UserID: 5, AnimeID: 1, Rating: -1}, {UserID: 5, AnimeID: 6, Rating: 7},
	}
	return &dataset.Tables{
		Anime:    anime,
		Ratings:  ratings,
		Source:   dataset.SourceLocal,
		LoadedAt: time.Now(),
	}
}

// stubSource serves fixtureTables or fails with err.
type stubSource struct {
	mu    sync.Mutex
	err   error
	calls atomic.Int32
}

func (s *stubSource) Load(_ context.Context) (*dataset.Tables, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return fixtureTables(), nil
}

func (s *stubSource) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

type stubReports struct {
	reports []recommend.BuildReport
	err     error
	limit   int
}

func (s *stubReports) List(_ context.Context, limit int) ([]recommend.BuildReport, error) {
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.reports) {
		return s.reports[:limit], nil
	}
	return s.reports, nil
}

func (s *stubReports) Count(_ context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return len(s.reports), nil
}

type testServer struct {
	handler *Handler
	engine  *recommend.Engine
	source  *stubSource
	http    http.Handler
}

func newTestServer(t *testing.T, reports ReportLister) *testServer {
	t.Helper()

	src := &stubSource{}
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), src, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	cfg := DefaultHandlerConfig()
	cfg.QueryTimeout = 5 * time.Second
	cfg.Version = "test"
	h, err := NewHandler(engine, reports, cfg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	t.Cleanup(h.Wait)

	return &testServer{
		handler: h,
		engine:  engine,
		source:  src,
		http:    NewRouter(h, nil).Setup(),
	}
}

func (s *testServer) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	s.http.ServeHTTP(w, req)
	return w
}

// envelope mirrors APIResponse with Data left raw for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v; body = %s", err, w.Body.String())
	}
	return env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v; data = %s", err, env.Data)
	}
}
