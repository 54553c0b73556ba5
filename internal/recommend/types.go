// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/animerec/internal/dataset"
)

var (
	// ErrEmptyMatrix is returned by Build when no rating survives the
	// sentinel filter and the join.
	ErrEmptyMatrix = errors.New("no ratings left after filter and join")

	// ErrInvalidCount is returned when a requested count is out of bounds.
	ErrInvalidCount = errors.New("invalid recommendation count")

	// ErrNotReady is returned when no model is available before the caller
	// gave up waiting.
	ErrNotReady = errors.New("recommendation model not ready")
)

// ModelSource supplies the raw tables a model is built from.
type ModelSource interface {
	Load(ctx context.Context) (*dataset.Tables, error)
}

// Recommendation is one ranked neighbour of the query title.
type Recommendation struct {
	// Rank is 1-based.
	Rank  int     `json:"rank"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// BuildStats describes what happened to the input during a build.
type BuildStats struct {
	// Ratings is the number of input rating rows.
	Ratings int `json:"ratings"`

	// Filtered is the number of sentinel ratings dropped.
	Filtered int `json:"filtered"`

	// NonFinite is the number of NaN or infinite ratings dropped.
	NonFinite int `json:"non_finite"`

	// Unmatched is the number of ratings whose anime_id had no metadata.
	Unmatched int `json:"unmatched"`

	// Joined is the number of ratings that reached the pivot.
	Joined int `json:"joined"`

	// Aggregated is the number of joined ratings folded into an existing
	// (title, user) cell by averaging.
	Aggregated int `json:"aggregated"`

	// DuplicateAnimeIDs counts anime rows ignored because their id was seen before.
	DuplicateAnimeIDs int `json:"duplicate_anime_ids"`

	Titles   int           `json:"titles"`
	Users    int           `json:"users"`
	Cells    int           `json:"cells"`
	ZeroRows int           `json:"zero_rows"`
	Duration time.Duration `json:"duration_ns"`
}

// Response is the engine's answer to a recommendation query.
type Response struct {
	Title    string           `json:"title"`
	K        int              `json:"k"`
	Found    bool             `json:"found"`
	Items    []Recommendation `json:"items"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	ModelVersion uint64         `json:"model_version"`
	BuiltAt      time.Time      `json:"built_at"`
	Source       dataset.Source `json:"source"`
	LatencyMS    float64        `json:"latency_ms"`
	CacheHit     bool           `json:"cache_hit"`
}

// Status represents the current state of the engine.
type Status struct {
	Ready    bool `json:"ready"`
	Building bool `json:"building"`

	ModelVersion uint64         `json:"model_version"`
	BuiltAt      time.Time      `json:"built_at,omitempty"`
	Source       dataset.Source `json:"source,omitempty"`
	Stats        *BuildStats    `json:"stats,omitempty"`

	LastError   string    `json:"last_error,omitempty"`
	LastErrorAt time.Time `json:"last_error_at,omitempty"`

	Builds        int64 `json:"builds"`
	BuildFailures int64 `json:"build_failures"`
	Requests      int64 `json:"requests"`
	RecentQueries int64 `json:"recent_queries"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	CacheSize     int   `json:"cache_size"`
}

// BuildReport records one load + build attempt.
type BuildReport struct {
	ID             string            `json:"id"`
	Trigger        string            `json:"trigger"`
	StartedAt      time.Time         `json:"started_at"`
	DurationMS     int64             `json:"duration_ms"`
	Success        bool              `json:"success"`
	Error          string            `json:"error,omitempty"`
	ModelVersion   uint64            `json:"model_version,omitempty"`
	Source         dataset.Source    `json:"source,omitempty"`
	FallbackReason string            `json:"fallback_reason,omitempty"`
	AnimeRead      dataset.ReadStats `json:"anime_read"`
	RatingsRead    dataset.ReadStats `json:"ratings_read"`
	Build          *BuildStats       `json:"build,omitempty"`
}

// ReportRecorder persists build reports.
type ReportRecorder interface {
	Record(ctx context.Context, report *BuildReport) error
}
