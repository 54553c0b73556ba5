// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"cmp"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/tomtom215/animerec/internal/cache"
	"github.com/tomtom215/animerec/internal/dataset"
)

// joinedRating is a rating after the join. title and user start out as
// first-seen ids and are rewritten to final row and column indices.
type joinedRating struct {
	title  int32
	user   int32
	rating float64
}

// Build turns the raw tables into a Model:
//
//  1. drop ratings equal to opts.Sentinel, and NaN or infinite ratings
//  2. inner join with anime on anime_id, keeping (user, name, rating)
//  3. pivot to a title x user matrix, averaging duplicate cells
//  4. compute pairwise cosine similarity between title rows
//
// Rows are ordered by title (byte order) and columns by user id. If the
// anime table repeats an id the first row wins; ids sharing a name share a
// row. Inputs are not modified.
func Build(anime []dataset.Anime, ratings []dataset.Rating, opts BuildOptions) (*Model, error) {
	start := time.Now()
	stats := BuildStats{Ratings: len(ratings)}

	names := make(map[int]string, len(anime))
	for _, a := range anime {
		if _, dup := names[a.ID]; dup {
			stats.DuplicateAnimeIDs++
			continue
		}
		names[a.ID] = a.Name
	}

	titleIDs := make(map[string]int32)
	var titleNames []string
	userIDs := make(map[int]int32)
	var users []int
	joined := make([]joinedRating, 0, len(ratings))

	for _, r := range ratings {
		if r.Rating == opts.Sentinel {
			stats.Filtered++
			continue
		}
		if math.IsNaN(r.Rating) || math.IsInf(r.Rating, 0) {
			stats.NonFinite++
			continue
		}
		name, ok := names[r.AnimeID]
		if !ok {
			stats.Unmatched++
			continue
		}

		tid, ok := titleIDs[name]
		if !ok {
			tid = int32(len(titleNames))
			titleIDs[name] = tid
			titleNames = append(titleNames, name)
		}
		uid, ok := userIDs[r.UserID]
		if !ok {
			uid = int32(len(users))
			userIDs[r.UserID] = uid
			users = append(users, r.UserID)
		}
		joined = append(joined, joinedRating{title: tid, user: uid, rating: r.Rating})
	}

	stats.Joined = len(joined)
	if stats.Joined == 0 {
		return nil, ErrEmptyMatrix
	}

	titles := slices.Clone(titleNames)
	sort.Strings(titles)
	index := make(map[string]int, len(titles))
	for i, t := range titles {
		index[t] = i
	}
	rowOf := make([]int32, len(titleNames))
	for tid, name := range titleNames {
		rowOf[tid] = int32(index[name])
	}

	sortedUsers := slices.Clone(users)
	slices.Sort(sortedUsers)
	colOf := make([]int32, len(users))
	for col, u := range sortedUsers {
		colOf[userIDs[u]] = int32(col)
	}

	for i := range joined {
		joined[i].title = rowOf[joined[i].title]
		joined[i].user = colOf[joined[i].user]
	}
	// Stable so that duplicate cells are summed in input order.
	slices.SortStableFunc(joined, func(a, b joinedRating) int {
		if c := cmp.Compare(a.title, b.title); c != 0 {
			return c
		}
		return cmp.Compare(a.user, b.user)
	})

	ratingsMatrix := pivotMean(joined, len(titles), len(sortedUsers))
	sim, norms := cosineMatrix(ratingsMatrix, opts.workers())

	stats.Titles = len(titles)
	stats.Users = len(sortedUsers)
	stats.Cells = len(ratingsMatrix.vals)
	stats.Aggregated = stats.Joined - stats.Cells
	for _, n := range norms {
		if n == 0 {
			stats.ZeroRows++
		}
	}
	stats.Duration = time.Since(start)

	return &Model{
		titles:  titles,
		index:   index,
		users:   sortedUsers,
		ratings: ratingsMatrix,
		sim:     sim,
		n:       len(titles),
		stats:   stats,
		builtAt: time.Now(),
		prefix:  cache.NewPrefixIndex(titles),
	}, nil
}

// pivotMean folds rows sorted by (title, user) into a CSR matrix, averaging
// repeated cells. Titles without cells cannot occur: every title came from
// at least one joined rating.
func pivotMean(joined []joinedRating, rows, cols int) *csr {
	m := &csr{
		rowPtr: make([]int, rows+1),
		cols:   make([]int32, 0, len(joined)),
		vals:   make([]float64, 0, len(joined)),
		nCols:  cols,
	}

	for i := 0; i < len(joined); {
		j := i
		sum := 0.0
		for j < len(joined) && joined[j].title == joined[i].title && joined[j].user == joined[i].user {
			sum += joined[j].rating
			j++
		}
		m.cols = append(m.cols, joined[i].user)
		m.vals = append(m.vals, sum/float64(j-i))
		m.rowPtr[joined[i].title+1]++
		i = j
	}

	for r := 0; r < rows; r++ {
		m.rowPtr[r+1] += m.rowPtr[r]
	}
	return m
}
