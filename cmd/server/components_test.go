// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"net/http"
	"runtime"
	"testing"
	"time"

	"github.com/tomtom215/animerec/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:    "127.0.0.1",
			Port:    8501,
			Timeout: 30 * time.Second,
		},
		Data: config.DataConfig{
			AnimePath:       "anime.csv",
			RatingsPath:     "rating.csv",
			FetchTimeout:    5 * time.Second,
			FetchMaxBytes:   1 << 20,
			UnratedSentinel: -1,
		},
		Recommend: config.RecommendConfig{
			DefaultK:       5,
			MinK:           3,
			MaxK:           10,
			CacheSize:      16,
			BuildTimeout:   time.Minute,
			ReloadInterval: 30 * time.Second,
		},
		Security: config.SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}

func TestBuildEngineConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Data.UnratedSentinel = -2

	ec := buildEngineConfig(cfg)
	if err := ec.Validate(); err != nil {
		t.Fatalf("engine config invalid: %v", err)
	}
	if ec.DefaultK != 5 || ec.MinK != 3 || ec.MaxK != 10 {
		t.Errorf("k bounds = %d/%d/%d", ec.DefaultK, ec.MinK, ec.MaxK)
	}
	if ec.Build.Sentinel != -2 {
		t.Errorf("sentinel = %v, want -2", ec.Build.Sentinel)
	}
	if ec.Build.Workers != runtime.GOMAXPROCS(0) {
		t.Errorf("workers = %d, want GOMAXPROCS", ec.Build.Workers)
	}

	cfg.Recommend.Workers = 3
	if got := buildEngineConfig(cfg).Build.Workers; got != 3 {
		t.Errorf("workers = %d, want 3", got)
	}
}

func TestBuildHandlerConfig(t *testing.T) {
	hc := buildHandlerConfig(testConfig())
	if hc.QueryTimeout != 30*time.Second {
		t.Errorf("query timeout = %v", hc.QueryTimeout)
	}
	if hc.ReloadInterval != 30*time.Second {
		t.Errorf("reload interval = %v", hc.ReloadInterval)
	}
	if hc.Version != version {
		t.Errorf("version = %q, want %q", hc.Version, version)
	}
}

func TestBuildLoader(t *testing.T) {
	if l := buildLoader(testConfig()); l == nil {
		t.Fatal("buildLoader returned nil")
	}

	cfg := testConfig()
	cfg.Data.RatingsURL = "https://example.com/rating.csv"
	if l := buildLoader(cfg); l == nil {
		t.Fatal("buildLoader with URL returned nil")
	}
}

func TestNewHTTPServer(t *testing.T) {
	srv := newHTTPServer(testConfig(), http.NotFoundHandler())
	if srv.Addr != "127.0.0.1:8501" {
		t.Errorf("addr = %q", srv.Addr)
	}
	if srv.WriteTimeout <= srv.ReadTimeout {
		t.Errorf("write timeout %v should exceed read timeout %v", srv.WriteTimeout, srv.ReadTimeout)
	}
}

func TestBuildChiMiddleware(t *testing.T) {
	if buildChiMiddleware(testConfig()) == nil {
		t.Fatal("buildChiMiddleware returned nil")
	}
}
