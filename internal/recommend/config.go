// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"fmt"
	"runtime"
	"time"
)

// BuildOptions controls matrix construction.
type BuildOptions struct {
	// Sentinel is the rating value meaning "watched, not rated".
	// Ratings equal to it are dropped before the join.
	Sentinel float64 `json:"sentinel"`

	// Workers is the number of goroutines computing similarity rows.
	// Zero or less means runtime.GOMAXPROCS(0).
	Workers int `json:"workers"`
}

// DefaultBuildOptions returns sentinel -1 and one worker per CPU.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Sentinel: -1, Workers: runtime.GOMAXPROCS(0)}
}

func (o BuildOptions) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// Config contains all configuration for the recommendation engine.
type Config struct {
	// DefaultK is the count used when a caller does not ask for one.
	DefaultK int `json:"default_k"`

	// MinK and MaxK bound the accepted count, inclusive.
	MinK int `json:"min_k"`
	MaxK int `json:"max_k"`

	// CacheSize is the response cache capacity. Zero disables caching.
	CacheSize int `json:"cache_size"`

	// BuildTimeout bounds a single load + build.
	BuildTimeout time.Duration `json:"build_timeout"`

	Build BuildOptions `json:"build"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultK:     5,
		MinK:         3,
		MaxK:         10,
		CacheSize:    1024,
		BuildTimeout: 10 * time.Minute,
		Build:        DefaultBuildOptions(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MinK < 1 {
		return fmt.Errorf("min_k must be at least 1, got %d", c.MinK)
	}
	if c.MaxK < c.MinK {
		return fmt.Errorf("max_k (%d) must be >= min_k (%d)", c.MaxK, c.MinK)
	}
	if c.DefaultK < c.MinK || c.DefaultK > c.MaxK {
		return fmt.Errorf("default_k must be between %d and %d, got %d", c.MinK, c.MaxK, c.DefaultK)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", c.CacheSize)
	}
	if c.BuildTimeout <= 0 {
		return fmt.Errorf("build_timeout must be positive")
	}
	return nil
}
