// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package cache

import (
	"sort"
	"strings"
)

type trieNode struct {
	children map[rune]*trieNode
	ids      []int // ids of values ending here
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// PrefixIndex is an immutable, case-insensitive prefix tree over a list of
// values, used for title autocomplete. Lookup is O(m) in the prefix length
// plus the size of the matching subtree.
//
// Results are returned in the order of the input slice, so building the
// index from a sorted list yields sorted suggestions. A PrefixIndex is safe
// for concurrent readers once built.
type PrefixIndex struct {
	root   *trieNode
	values []string
}

// NewPrefixIndex builds an index over values. The slice is retained and must
// not be modified afterwards.
func NewPrefixIndex(values []string) *PrefixIndex {
	idx := &PrefixIndex{root: newTrieNode(), values: values}
	for id, v := range values {
		node := idx.root
		for _, ch := range strings.ToLower(v) {
			next := node.children[ch]
			if next == nil {
				next = newTrieNode()
				node.children[ch] = next
			}
			node = next
		}
		node.ids = append(node.ids, id)
	}
	return idx
}

// Lookup returns up to limit values starting with prefix, ignoring case.
// An empty prefix matches everything. limit <= 0 means no limit.
func (idx *PrefixIndex) Lookup(prefix string, limit int) []string {
	node := idx.root
	for _, ch := range strings.ToLower(prefix) {
		node = node.children[ch]
		if node == nil {
			return []string{}
		}
	}

	var ids []int
	collect(node, &ids)
	sort.Ints(ids)

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.values[id]
	}
	return out
}

// Len returns the number of indexed values.
func (idx *PrefixIndex) Len() int {
	return len(idx.values)
}

func collect(node *trieNode, ids *[]int) {
	*ids = append(*ids, node.ids...)
	for _, child := range node.children {
		collect(child, ids)
	}
}
