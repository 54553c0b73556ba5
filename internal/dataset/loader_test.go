// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
)

// stubFetcher returns a fixed result and counts calls.
type stubFetcher struct {
	result FetchResult
	calls  int
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) FetchResult {
	s.calls++
	return s.result
}

func fixtureDir(t *testing.T) (animePath, ratingsPath string) {
	t.Helper()
	dir := t.TempDir()
	animePath = filepath.Join(dir, "anime.csv")
	ratingsPath = filepath.Join(dir, "rating.csv")
	writeFile(t, animePath, "anime_id,name\n1,Alpha\n2,Beta\n")
	writeFile(t, ratingsPath, "user_id,anime_id,rating\n1,1,5\n1,2,5\n2,1,3\n")
	return animePath, ratingsPath
}

func TestLoader_Load(t *testing.T) {
	animePath, ratingsPath := fixtureDir(t)
	remoteRatings := []Rating{{UserID: 9, AnimeID: 1, Rating: 10}}

	tests := []struct {
		name        string
		cfg         LoaderConfig
		fetcher     *stubFetcher
		wantSource  Source
		wantRatings int
		wantCalls   int
		wantErr     error
		wantReason  bool
	}{
		{
			name:        "local only when no url",
			cfg:         LoaderConfig{AnimePath: animePath, RatingsPath: ratingsPath},
			fetcher:     &stubFetcher{},
			wantSource:  SourceLocal,
			wantRatings: 3,
			wantCalls:   0,
		},
		{
			name:        "remote success skips local",
			cfg:         LoaderConfig{AnimePath: animePath, RatingsPath: ratingsPath, RatingsURL: "http://remote/rating.csv"},
			fetcher:     &stubFetcher{result: FetchResult{Ratings: remoteRatings, Source: SourceRemote}},
			wantSource:  SourceRemote,
			wantRatings: 1,
			wantCalls:   1,
		},
		{
			name:        "remote failure falls back once",
			cfg:         LoaderConfig{AnimePath: animePath, RatingsPath: ratingsPath, RatingsURL: "http://remote/rating.csv"},
			fetcher:     &stubFetcher{result: FetchResult{Source: SourceRemote, Err: errors.New("unexpected status 500")}},
			wantSource:  SourceLocal,
			wantRatings: 3,
			wantCalls:   1,
			wantReason:  true,
		},
		{
			name:      "both sources fail",
			cfg:       LoaderConfig{AnimePath: animePath, RatingsPath: filepath.Join(t.TempDir(), "missing.csv"), RatingsURL: "http://remote/rating.csv"},
			fetcher:   &stubFetcher{result: FetchResult{Source: SourceRemote, Err: errors.New("connection refused")}},
			wantCalls: 1,
			wantErr:   ErrDataUnavailable,
		},
		{
			name:      "remote fails and no local path",
			cfg:       LoaderConfig{AnimePath: animePath, RatingsURL: "http://remote/rating.csv"},
			fetcher:   &stubFetcher{result: FetchResult{Source: SourceRemote, Err: ErrSchemaMismatch}},
			wantCalls: 1,
			wantErr:   ErrDataUnavailable,
		},
		{
			name:    "anime table missing",
			cfg:     LoaderConfig{AnimePath: filepath.Join(t.TempDir(), "nope.csv"), RatingsPath: ratingsPath},
			fetcher: &stubFetcher{},
			wantErr: ErrDataUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, err := NewLoader(tt.cfg, tt.fetcher).Load(context.Background())

			if tt.fetcher.calls != tt.wantCalls {
				t.Errorf("fetch calls = %d, want %d", tt.fetcher.calls, tt.wantCalls)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if tables.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", tables.Source, tt.wantSource)
			}
			if len(tables.Ratings) != tt.wantRatings {
				t.Errorf("len(Ratings) = %d, want %d", len(tables.Ratings), tt.wantRatings)
			}
			if len(tables.Anime) != 2 {
				t.Errorf("len(Anime) = %d, want 2", len(tables.Anime))
			}
			if (tables.FallbackReason != nil) != tt.wantReason {
				t.Errorf("FallbackReason = %v, want set=%v", tables.FallbackReason, tt.wantReason)
			}
		})
	}
}

func TestLoader_BothFailuresReported(t *testing.T) {
	animePath, _ := fixtureDir(t)
	remoteErr := errors.New("remote boom")
	l := NewLoader(LoaderConfig{
		AnimePath:   animePath,
		RatingsPath: filepath.Join(t.TempDir(), "missing.csv"),
		RatingsURL:  "http://remote/rating.csv",
	}, &stubFetcher{result: FetchResult{Err: remoteErr}})

	_, err := l.Load(context.Background())
	if !errors.Is(err, remoteErr) {
		t.Errorf("error should wrap the remote cause: %v", err)
	}
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("error should wrap ErrDataUnavailable: %v", err)
	}
}

func TestLoader_RemoteSchemaMismatchFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("uid,aid,score\n1,1,5\n"))
	}))
	defer srv.Close()

	animePath, ratingsPath := fixtureDir(t)
	cfg := DefaultFetcherConfig()
	cfg.Timeout = 5 * time.Second
	l := NewLoader(LoaderConfig{AnimePath: animePath, RatingsPath: ratingsPath, RatingsURL: srv.URL}, NewRemoteFetcher(cfg))

	tables, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tables.Source != SourceLocal {
		t.Errorf("Source = %q, want local", tables.Source)
	}
	if !errors.Is(tables.FallbackReason, ErrSchemaMismatch) {
		t.Errorf("FallbackReason = %v, want ErrSchemaMismatch", tables.FallbackReason)
	}
}

func TestLoader_CanceledContext(t *testing.T) {
	animePath, ratingsPath := fixtureDir(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(LoaderConfig{AnimePath: animePath, RatingsPath: ratingsPath}, nil).Load(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
