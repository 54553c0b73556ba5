// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/tomtom215/animerec/internal/api"
	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/dataset"
	"github.com/tomtom215/animerec/internal/recommend"
)

// buildLoader wires the dataset loader. The remote fetcher is only created
// when a ratings URL is configured.
func buildLoader(cfg *config.Config) *dataset.Loader {
	var fetcher dataset.Fetcher
	if cfg.Data.RatingsURL != "" {
		fc := dataset.DefaultFetcherConfig()
		fc.Timeout = cfg.Data.FetchTimeout
		fc.MaxBytes = cfg.Data.FetchMaxBytes
		fc.UserAgent = "animerec/" + version
		fetcher = dataset.NewRemoteFetcher(fc)
	}

	return dataset.NewLoader(dataset.LoaderConfig{
		AnimePath:   cfg.Data.AnimePath,
		RatingsPath: cfg.Data.RatingsPath,
		RatingsURL:  cfg.Data.RatingsURL,
	}, fetcher)
}

func buildEngineConfig(cfg *config.Config) *recommend.Config {
	workers := cfg.Recommend.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &recommend.Config{
		DefaultK:     cfg.Recommend.DefaultK,
		MinK:         cfg.Recommend.MinK,
		MaxK:         cfg.Recommend.MaxK,
		CacheSize:    cfg.Recommend.CacheSize,
		BuildTimeout: cfg.Recommend.BuildTimeout,
		Build: recommend.BuildOptions{
			Sentinel: cfg.Data.UnratedSentinel,
			Workers:  workers,
		},
	}
}

func buildHandlerConfig(cfg *config.Config) api.HandlerConfig {
	hc := api.DefaultHandlerConfig()
	hc.QueryTimeout = cfg.Server.Timeout
	hc.ReloadInterval = cfg.Recommend.ReloadInterval
	hc.Version = version
	return hc
}

func buildChiMiddleware(cfg *config.Config) *api.ChiMiddleware {
	return api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
}

// newHTTPServer creates the server. The write timeout leaves room for a
// request that waits the full query timeout for a model build.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
