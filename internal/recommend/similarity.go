// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/floats"
)

// csr is a compressed sparse row matrix. Row r holds the entries
// cols[rowPtr[r]:rowPtr[r+1]] (ascending) with matching vals.
type csr struct {
	rowPtr []int
	cols   []int32
	vals   []float64
	nCols  int
}

func (m *csr) rows() int {
	return len(m.rowPtr) - 1
}

func (m *csr) row(r int) ([]int32, []float64) {
	lo, hi := m.rowPtr[r], m.rowPtr[r+1]
	return m.cols[lo:hi], m.vals[lo:hi]
}

// transpose returns the column-major view. Because rows are visited in
// order, each output row lists its source rows ascending.
func (m *csr) transpose() *csr {
	t := &csr{
		rowPtr: make([]int, m.nCols+1),
		cols:   make([]int32, len(m.cols)),
		vals:   make([]float64, len(m.vals)),
		nCols:  m.rows(),
	}
	for _, c := range m.cols {
		t.rowPtr[c+1]++
	}
	for c := 0; c < m.nCols; c++ {
		t.rowPtr[c+1] += t.rowPtr[c]
	}
	next := slices.Clone(t.rowPtr[:m.nCols])
	for r := 0; r < m.rows(); r++ {
		cols, vals := m.row(r)
		for k, c := range cols {
			p := next[c]
			t.cols[p] = int32(r)
			t.vals[p] = vals[k]
			next[c]++
		}
	}
	return t
}

// triIndex maps (i, j) with i <= j to its offset in a packed upper triangle.
func triIndex(i, j, n int) int {
	return i*n - i*(i-1)/2 + (j - i)
}

// rowChunk is the number of rows a worker claims at a time. Early rows
// carry more work than late ones, so chunks are handed out dynamically.
const rowChunk = 16

// cosineMatrix computes cosine similarity for every pair of rows and
// returns the packed upper triangle together with the row norms.
// Pairs involving a zero row score 0, including the diagonal.
//
// Dot products are accumulated per row through the transposed matrix, so
// only pairs of titles with a common user do any work.
func cosineMatrix(m *csr, workers int) ([]float64, []float64) {
	n := m.rows()

	// Zero cells add nothing to a norm, so the stored values suffice.
	norms := make([]float64, n)
	for r := 0; r < n; r++ {
		_, vals := m.row(r)
		norms[r] = floats.Norm(vals, 2)
	}

	t := m.transpose()
	tri := make([]float64, n*(n+1)/2)

	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc := make([]float64, n)
			for {
				start := int(next.Add(rowChunk)) - rowChunk
				if start >= n {
					return
				}
				end := min(start+rowChunk, n)
				for i := start; i < end; i++ {
					similarityRow(m, t, norms, i, acc, tri[triIndex(i, i, n):triIndex(i, i, n)+n-i])
				}
			}
		}()
	}
	wg.Wait()

	return tri, norms
}

// similarityRow fills out[k] with cosine(i, i+k) for every k.
// acc is scratch space of length n and is left zeroed.
func similarityRow(m, t *csr, norms []float64, i int, acc, out []float64) {
	cols, vals := m.row(i)
	for k, c := range cols {
		vi := vals[k]
		rows, rvals := t.row(int(c))
		p := sort.Search(len(rows), func(x int) bool { return int(rows[x]) >= i })
		for q := p; q < len(rows); q++ {
			acc[rows[q]] += vi * rvals[q]
		}
	}

	for k := range out {
		j := i + k
		dot := acc[j]
		if dot == 0 {
			continue
		}
		acc[j] = 0
		denom := norms[i] * norms[j]
		if denom == 0 {
			continue
		}
		out[k] = clampUnit(dot / denom)
	}
}

// clampUnit keeps rounding error from pushing a score outside [-1, 1].
func clampUnit(s float64) float64 {
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	default:
		return s
	}
}
