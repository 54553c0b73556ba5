// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package dataset

import (
	"errors"
	"time"
)

var (
	// ErrDataUnavailable is returned when neither the remote nor the local
	// ratings source (or the anime table) could be read.
	ErrDataUnavailable = errors.New("dataset unavailable")

	// ErrSchemaMismatch is returned when a CSV header lacks a required column.
	ErrSchemaMismatch = errors.New("csv schema mismatch")
)

// Anime is one row of the anime metadata table. Columns other than
// anime_id and name are not retained.
type Anime struct {
	ID   int
	Name string
}

// Rating is one row of the ratings table. A Rating equal to the unrated
// sentinel means the user watched the title without scoring it.
type Rating struct {
	UserID  int
	AnimeID int
	Rating  float64
}

// ReadStats counts rows seen while reading a CSV table.
type ReadStats struct {
	Rows    int `json:"rows"`
	Kept    int `json:"kept"`
	Dropped int `json:"dropped"`
}

// Source names where the ratings table was read from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// FetchResult is the outcome of a single remote ratings fetch.
// Exactly one of Ratings or Err is meaningful.
type FetchResult struct {
	Ratings []Rating
	Stats   ReadStats
	Source  Source
	Elapsed time.Duration
	Err     error
}

// OK reports whether the fetch produced a usable ratings table.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// Tables is the pair of raw tables handed to the matrix builder.
type Tables struct {
	Anime       []Anime
	Ratings     []Rating
	AnimeStats  ReadStats
	RatingStats ReadStats

	// Source is where Ratings came from.
	Source Source

	// FallbackReason is the remote failure that caused a local read, or nil.
	FallbackReason error

	LoadedAt time.Time
}
