// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package cache

import (
	"reflect"
	"testing"
)

func TestPrefixIndex_Lookup(t *testing.T) {
	titles := []string{
		"Clannad",
		"Clannad: After Story",
		"Code Geass: Hangyaku no Lelouch",
		"Kimi no Na wa.",
		"Kimi ni Todoke",
		"Steins;Gate",
		"Ōkami-san",
	}
	idx := NewPrefixIndex(titles)

	tests := []struct {
		name   string
		prefix string
		limit  int
		want   []string
	}{
		{"case insensitive", "clan", 0, []string{"Clannad", "Clannad: After Story"}},
		{"keeps input order", "kimi n", 0, []string{"Kimi no Na wa.", "Kimi ni Todoke"}},
		{"limit applied", "c", 2, []string{"Clannad", "Clannad: After Story"}},
		{"exact match", "steins;gate", 0, []string{"Steins;Gate"}},
		{"unicode", "ō", 0, []string{"Ōkami-san"}},
		{"no match", "zzz", 0, []string{}},
		{"empty prefix matches all", "", 3, []string{"Clannad", "Clannad: After Story", "Code Geass: Hangyaku no Lelouch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Lookup(tt.prefix, tt.limit)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lookup(%q, %d) = %v, want %v", tt.prefix, tt.limit, got, tt.want)
			}
		})
	}

	if idx.Len() != len(titles) {
		t.Errorf("Len() = %d, want %d", idx.Len(), len(titles))
	}
}

func TestPrefixIndex_DuplicateCaseVariants(t *testing.T) {
	idx := NewPrefixIndex([]string{"ANOTHER", "Another"})
	got := idx.Lookup("another", 0)
	want := []string{"ANOTHER", "Another"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup = %v, want %v", got, want)
	}
}
