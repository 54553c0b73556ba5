// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/animerec/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateData(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be 'development' or 'production', got %q", c.Server.Environment)
	}
	return nil
}

// validateData requires an anime table and at least one ratings source.
func (c *Config) validateData() error {
	if strings.TrimSpace(c.Data.AnimePath) == "" {
		return fmt.Errorf("ANIME_PATH is required")
	}
	if strings.TrimSpace(c.Data.RatingsPath) == "" && strings.TrimSpace(c.Data.RatingsURL) == "" {
		return fmt.Errorf("one of RATINGS_PATH or RATINGS_URL is required")
	}
	if c.Data.RatingsURL != "" {
		if err := validateHTTPURL(c.Data.RatingsURL, "RATINGS_URL"); err != nil {
			return err
		}
	}
	if c.Data.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.Data.FetchMaxBytes <= 0 {
		return fmt.Errorf("FETCH_MAX_BYTES must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MinK < 1 {
		return fmt.Errorf("RECOMMEND_MIN_K must be at least 1, got %d", r.MinK)
	}
	if r.MaxK < r.MinK {
		return fmt.Errorf("RECOMMEND_MAX_K (%d) must be >= RECOMMEND_MIN_K (%d)", r.MaxK, r.MinK)
	}
	if r.DefaultK < r.MinK || r.DefaultK > r.MaxK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be between %d and %d, got %d", r.MinK, r.MaxK, r.DefaultK)
	}
	if r.Workers < 0 {
		return fmt.Errorf("RECOMMEND_WORKERS cannot be negative")
	}
	if r.CacheSize < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE cannot be negative")
	}
	if r.BuildTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_BUILD_TIMEOUT must be positive")
	}
	if r.ReloadInterval < 0 {
		return fmt.Errorf("RECOMMEND_RELOAD_INTERVAL cannot be negative")
	}
	return nil
}

// validateSecurity validates rate limiting and CORS settings
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive when rate limiting is enabled")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				logging.Warn().Msg("CORS_ORIGINS allows any origin in production")
				break
			}
		}
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.ReportHistory < 1 {
		return fmt.Errorf("STORAGE_REPORT_HISTORY must be at least 1")
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic, disabled; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL validates that a URL is an absolute http(s) URL with a host.
// Unlike a service base URL, a dataset URL is expected to carry a path.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	return nil
}
