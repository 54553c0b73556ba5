// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestLRU_BasicOperations(t *testing.T) {
	cache := NewLRU[string, int](3)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, found := cache.Get(key)
		if !found {
			t.Errorf("Expected to find key %q", key)
		}
		if got != want {
			t.Errorf("Get(%q) = %d, want %d", key, got, want)
		}
	}

	if cache.Len() != 3 {
		t.Errorf("Expected len 3, got %d", cache.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	cache := NewLRU[string, int](3)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	// Access 'a' to make it most recently used
	cache.Get("a")

	// Add new item, should evict 'b' (least recently used)
	cache.Add("d", 4)

	if cache.Contains("b") {
		t.Error("Expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if !cache.Contains(key) {
			t.Errorf("Expected %q to be present", key)
		}
	}
	if got := cache.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestLRU_UpdateExisting(t *testing.T) {
	cache := NewLRU[string, string](2)

	cache.Add("a", "old")
	cache.Add("b", "b")
	cache.Add("a", "new")
	cache.Add("c", "c") // evicts b, since a was refreshed

	if v, _ := cache.Get("a"); v != "new" {
		t.Errorf("Get(a) = %q, want new", v)
	}
	if cache.Contains("b") {
		t.Error("Expected 'b' to be evicted")
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	cache := NewLRU[int, int](10)
	for i := 0; i < 5; i++ {
		cache.Add(i, i*i)
	}

	if !cache.Remove(2) {
		t.Error("Remove(2) = false, want true")
	}
	if cache.Remove(2) {
		t.Error("second Remove(2) = true, want false")
	}
	if cache.Len() != 4 {
		t.Errorf("Len() = %d, want 4", cache.Len())
	}

	cache.Get(0)
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", cache.Len())
	}
	if _, ok := cache.Get(0); ok {
		t.Error("Get after Clear should miss")
	}

	// Clear keeps statistics
	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats = %+v, want hits=1 misses=1", stats)
	}

	// Cache still usable after Clear
	cache.Add(7, 49)
	if v, ok := cache.Get(7); !ok || v != 49 {
		t.Errorf("Get(7) = %d, %v", v, ok)
	}
}

func TestLRU_Disabled(t *testing.T) {
	cache := NewLRU[string, int](0)
	cache.Add("a", 1)
	if cache.Len() != 0 {
		t.Errorf("disabled cache stored an entry")
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("disabled cache returned a hit")
	}
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	cache := NewLRU[string, int](100)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := strconv.Itoa((g*500 + i) % 150)
				cache.Add(key, i)
				cache.Get(key)
				if i%50 == 0 {
					cache.Remove(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if cache.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity 100", cache.Len())
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	cache := NewLRU[string, int](1000)
	for i := 0; i < 1000; i++ {
		cache.Add(strconv.Itoa(i), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(strconv.Itoa(i % 1000))
	}
}
