// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package dataset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// FetcherConfig configures RemoteFetcher.
type FetcherConfig struct {
	// Timeout bounds the whole fetch including reading the body.
	Timeout time.Duration

	// MaxBytes caps the response body size.
	MaxBytes int64

	// UserAgent is sent with every request.
	UserAgent string

	Breaker BreakerSettings
}

// DefaultFetcherConfig returns a 30 second timeout and a 512 MiB body cap.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:   30 * time.Second,
		MaxBytes:  512 << 20,
		UserAgent: "animerec",
		Breaker:   DefaultBreakerSettings(),
	}
}

// RemoteFetcher downloads the ratings CSV over HTTP.
type RemoteFetcher struct {
	client    *http.Client
	cfg       FetcherConfig
	cb        *gobreaker.CircuitBreaker[interface{}]
	name      string
	userAgent string
}

// NewRemoteFetcher creates a fetcher with its own HTTP client and breaker.
func NewRemoteFetcher(cfg FetcherConfig) *RemoteFetcher {
	def := DefaultFetcherConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = def.MaxBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Breaker == (BreakerSettings{}) {
		cfg.Breaker = def.Breaker
	}

	return &RemoteFetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		cfg:       cfg,
		cb:        newCircuitBreaker(breakerName, cfg.Breaker),
		name:      breakerName,
		userAgent: cfg.UserAgent,
	}
}

type remotePayload struct {
	ratings []Rating
	stats   ReadStats
}

// Fetch downloads and parses the ratings table at url in a single attempt.
// Failures are reported through FetchResult.Err.
func (f *RemoteFetcher) Fetch(ctx context.Context, url string) FetchResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	res, err := f.execute(func() (interface{}, error) {
		return f.fetch(ctx, url)
	})

	out := FetchResult{Source: SourceRemote, Elapsed: time.Since(start)}
	if err != nil {
		out.Err = fmt.Errorf("fetch %s: %w", url, err)
		return out
	}
	payload, ok := res.(*remotePayload)
	if !ok {
		out.Err = fmt.Errorf("circuit breaker: unexpected result type %T", res)
		return out
	}
	out.Ratings = payload.ratings
	out.Stats = payload.stats
	return out
}

func (f *RemoteFetcher) fetch(ctx context.Context, url string) (*remotePayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body := http.MaxBytesReader(nil, resp.Body, f.cfg.MaxBytes)
	ratings, stats, err := ReadRatings(bufio.NewReaderSize(body, readBufferSize))
	if err != nil {
		return nil, err
	}
	return &remotePayload{ratings: ratings, stats: stats}, nil
}
