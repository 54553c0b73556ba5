// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"slices"
	"sort"
	"time"

	"github.com/tomtom215/animerec/internal/cache"
)

// Model holds the rating matrix and the similarity matrix built from one
// snapshot of the dataset. A Model is immutable and safe for concurrent use.
type Model struct {
	titles []string
	index  map[string]int
	users  []int

	ratings *csr
	sim     []float64 // packed upper triangle, n*(n+1)/2
	n       int

	stats   BuildStats
	builtAt time.Time
	prefix  *cache.PrefixIndex
}

// Titles returns the row titles in matrix order (sorted).
func (m *Model) Titles() []string {
	return slices.Clone(m.titles)
}

// Len returns the number of titles.
func (m *Model) Len() int {
	return m.n
}

// Users returns the column user ids in matrix order (ascending).
func (m *Model) Users() []int {
	return slices.Clone(m.users)
}

// Has reports whether title is a row of the matrix.
func (m *Model) Has(title string) bool {
	_, ok := m.index[title]
	return ok
}

// Similarity returns cosine(row i, row j). It panics if either index is
// out of range.
func (m *Model) Similarity(i, j int) float64 {
	if i < 0 || j < 0 || i >= m.n || j >= m.n {
		panic("recommend: similarity index out of range")
	}
	if i > j {
		i, j = j, i
	}
	return m.sim[triIndex(i, j, m.n)]
}

// SimilarityRow returns the similarity of title to every row, in row order.
func (m *Model) SimilarityRow(title string) ([]float64, bool) {
	i, ok := m.index[title]
	if !ok {
		return nil, false
	}
	out := make([]float64, m.n)
	for j := 0; j < i; j++ {
		out[j] = m.sim[triIndex(j, i, m.n)]
	}
	copy(out[i:], m.sim[triIndex(i, i, m.n):triIndex(i, i, m.n)+m.n-i])
	return out, true
}

// Row returns the rating row of title as a dense vector aligned with Users().
// Users who did not rate the title hold 0.
func (m *Model) Row(title string) ([]float64, bool) {
	i, ok := m.index[title]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(m.users))
	cols, vals := m.ratings.row(i)
	for k, c := range cols {
		out[c] = vals[k]
	}
	return out, true
}

// Stats returns the statistics gathered while building the model.
func (m *Model) Stats() BuildStats {
	return m.stats
}

// BuiltAt returns when the model finished building.
func (m *Model) BuiltAt() time.Time {
	return m.builtAt
}

// Suggest returns up to limit titles starting with prefix, ignoring case,
// in row order.
func (m *Model) Suggest(prefix string, limit int) []string {
	return m.prefix.Lookup(prefix, limit)
}

// Recommend returns the topN titles most similar to title, best first.
//
// Every other row is ranked by its similarity to title with a stable sort,
// so equal scores keep row order. The query title itself never appears.
// An unknown title or a non-positive topN yields an empty slice; if fewer
// than topN other titles exist, all of them are returned.
func (m *Model) Recommend(title string, topN int) []Recommendation {
	if topN <= 0 {
		return []Recommendation{}
	}
	scores, ok := m.SimilarityRow(title)
	if !ok {
		return []Recommendation{}
	}
	i := m.index[title]

	type scored struct {
		row   int
		score float64
	}
	ranked := make([]scored, 0, m.n-1)
	for j, s := range scores {
		if j == i {
			continue
		}
		ranked = append(ranked, scored{row: j, score: s})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if topN > len(ranked) {
		topN = len(ranked)
	}
	out := make([]Recommendation, topN)
	for k := 0; k < topN; k++ {
		out[k] = Recommendation{
			Rank:  k + 1,
			Title: m.titles[ranked[k].row],
			Score: ranked[k].score,
		}
	}
	return out
}
