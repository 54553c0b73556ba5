// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Required columns per table.
var (
	animeColumns   = []string{"anime_id", "name"}
	ratingsColumns = []string{"user_id", "anime_id", "rating"}
)

const readBufferSize = 1 << 20

// ReadAnime parses the anime metadata table.
func ReadAnime(r io.Reader) ([]Anime, ReadStats, error) {
	var (
		out   []Anime
		stats ReadStats
	)

	err := readTable(r, animeColumns, &stats, func(cols []string) bool {
		id, err := strconv.Atoi(strings.TrimSpace(cols[0]))
		if err != nil {
			return false
		}
		// Names are kept verbatim; "X" and "X " are different titles.
		name := cols[1]
		if name == "" {
			return false
		}
		out = append(out, Anime{ID: id, Name: name})
		return true
	})
	if err != nil {
		return nil, stats, fmt.Errorf("read anime table: %w", err)
	}
	return out, stats, nil
}

// ReadRatings parses the user ratings table. Sentinel ratings are kept;
// filtering them is the builder's job. NaN and infinite ratings count as
// missing and are dropped.
func ReadRatings(r io.Reader) ([]Rating, ReadStats, error) {
	var (
		out   []Rating
		stats ReadStats
	)

	err := readTable(r, ratingsColumns, &stats, func(cols []string) bool {
		userID, err := strconv.Atoi(strings.TrimSpace(cols[0]))
		if err != nil {
			return false
		}
		animeID, err := strconv.Atoi(strings.TrimSpace(cols[1]))
		if err != nil {
			return false
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(cols[2]), 64)
		if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
			return false
		}
		out = append(out, Rating{UserID: userID, AnimeID: animeID, Rating: rating})
		return true
	})
	if err != nil {
		return nil, stats, fmt.Errorf("read ratings table: %w", err)
	}
	return out, stats, nil
}

// LoadAnimeFile reads the anime table from path.
func LoadAnimeFile(path string) ([]Anime, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("open anime file: %w", err)
	}
	defer f.Close()
	return ReadAnime(bufio.NewReaderSize(f, readBufferSize))
}

// LoadRatingsFile reads the ratings table from path.
func LoadRatingsFile(path string) ([]Rating, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("open ratings file: %w", err)
	}
	defer f.Close()
	return ReadRatings(bufio.NewReaderSize(f, readBufferSize))
}

// readTable resolves the required columns from the header, then calls row
// with the required cells (in required order) for each record. Records with
// the wrong field count, or for which row returns false, are dropped.
func readTable(r io.Reader, required []string, stats *ReadStats, row func(cols []string) bool) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: missing header row", ErrSchemaMismatch)
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	index, err := columnIndex(header, required)
	if err != nil {
		return err
	}
	width := len(header)
	cols := make([]string, len(required))

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				stats.Rows++
				stats.Dropped++
				continue
			}
			return err
		}

		stats.Rows++
		if len(record) != width {
			stats.Dropped++
			continue
		}
		for i, idx := range index {
			cols[i] = record[idx]
		}
		if row(cols) {
			stats.Kept++
		} else {
			stats.Dropped++
		}
	}
}

// columnIndex maps each required column name to its header position.
func columnIndex(header, required []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	index := make([]int, len(required))
	var missing []string
	for i, col := range required {
		p, ok := pos[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[i] = p
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return index, nil
}
