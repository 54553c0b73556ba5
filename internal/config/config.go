// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: Override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("failed to load config")
//	}
//	server := http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)}
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Storage   StorageConfig   `koanf:"storage"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8501)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - HTTP_SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 10s)
//   - ENVIRONMENT: development or production (default: development)
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// DataConfig holds the locations of the anime and ratings tables.
//
// The ratings table is fetched from RatingsURL when set. If the fetch fails
// (network error, non-200 status, missing columns) the local RatingsPath is
// read once instead. There are no retries.
//
// Environment Variables:
//   - ANIME_PATH: Local anime.csv (default: anime.csv)
//   - RATINGS_PATH: Local rating.csv (default: rating.csv)
//   - RATINGS_URL: Optional remote rating.csv
//   - FETCH_TIMEOUT: Upper bound on the remote fetch (default: 30s)
//   - FETCH_MAX_BYTES: Remote body size limit (default: 512MiB)
//   - UNRATED_SENTINEL: Rating value meaning "not rated" (default: -1)
//   - WARM_ON_STARTUP: Build the model in the background at startup (default: true)
type DataConfig struct {
	AnimePath       string        `koanf:"anime_path"`
	RatingsPath     string        `koanf:"ratings_path"`
	RatingsURL      string        `koanf:"ratings_url"`
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`
	FetchMaxBytes   int64         `koanf:"fetch_max_bytes"`
	UnratedSentinel float64       `koanf:"unrated_sentinel"`
	WarmOnStartup   bool          `koanf:"warm_on_startup"`
}

// RecommendConfig holds recommender settings.
//
// Environment Variables:
//   - RECOMMEND_DEFAULT_K: Count used when a request omits k (default: 5)
//   - RECOMMEND_MIN_K / RECOMMEND_MAX_K: Accepted count range (default: 3..10)
//   - RECOMMEND_WORKERS: Similarity workers, 0 = GOMAXPROCS
//   - RECOMMEND_CACHE_SIZE: Response cache entries, 0 disables (default: 1024)
//   - RECOMMEND_BUILD_TIMEOUT: Upper bound on one model build (default: 10m)
//   - RECOMMEND_RELOAD_INTERVAL: Minimum spacing of manual reloads (default: 30s)
type RecommendConfig struct {
	DefaultK       int           `koanf:"default_k"`
	MinK           int           `koanf:"min_k"`
	MaxK           int           `koanf:"max_k"`
	Workers        int           `koanf:"workers"`
	CacheSize      int           `koanf:"cache_size"`
	BuildTimeout   time.Duration `koanf:"build_timeout"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// SecurityConfig holds request throttling and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// StorageConfig holds build report persistence settings.
// An empty Path keeps reports in memory for the life of the process.
type StorageConfig struct {
	Path          string `koanf:"path"`
	ReportHistory int    `koanf:"report_history"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from defaults, the optional config file, and the
// environment, in that order of increasing priority.
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
