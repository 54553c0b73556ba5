// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package cache

import (
	"sync"
	"time"
)

// WindowCounter counts events over a trailing time window using a ring of
// buckets. Increment is O(1) and Count is O(buckets).
//
//	recent := cache.NewWindowCounter(5*time.Minute, 10) // 30s buckets
//	recent.Add(1)
//	n := recent.Count()
type WindowCounter struct {
	mu         sync.Mutex
	buckets    []int64
	bucketSize time.Duration
	window     time.Duration
	current    int
	lastUpdate time.Time
	now        func() time.Time
}

// NewWindowCounter creates a counter over window split into numBuckets.
func NewWindowCounter(window time.Duration, numBuckets int) *WindowCounter {
	if numBuckets <= 0 {
		numBuckets = 10
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	c := &WindowCounter{
		buckets:    make([]int64, numBuckets),
		bucketSize: window / time.Duration(numBuckets),
		window:     window,
		now:        time.Now,
	}
	c.lastUpdate = c.now()
	return c
}

// Add adds delta to the current bucket.
func (c *WindowCounter) Add(delta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()
	c.buckets[c.current] += delta
}

// Count returns the number of events inside the window.
func (c *WindowCounter) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()

	var total int64
	for _, n := range c.buckets {
		total += n
	}
	return total
}

// Window returns the window length.
func (c *WindowCounter) Window() time.Duration {
	return c.window
}

// Reset clears all buckets.
func (c *WindowCounter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.buckets)
	c.current = 0
	c.lastUpdate = c.now()
}

// advance rotates out buckets that fell behind the window.
// Must be called with lock held.
func (c *WindowCounter) advance() {
	now := c.now()
	elapsed := int(now.Sub(c.lastUpdate) / c.bucketSize)
	if elapsed <= 0 {
		return
	}

	if elapsed >= len(c.buckets) {
		clear(c.buckets)
		c.current = 0
	} else {
		for i := 0; i < elapsed; i++ {
			c.current = (c.current + 1) % len(c.buckets)
			c.buckets[c.current] = 0
		}
	}
	// Keep the sub-bucket remainder so slow callers do not drift.
	c.lastUpdate = c.lastUpdate.Add(time.Duration(elapsed) * c.bucketSize)
}
