// Package trie provides a byte-string trie mapping keys to one or more values.
package trie

import "sync"

type node struct {
	children map[byte]*node
	values   []uint64
}

func newNode() *node {
	return &node{children: make(map[byte]*node)}
}

// Trie maps byte-string keys to values. Safe for concurrent use.
type Trie struct {
	mu   sync.RWMutex
	root *node
	keys int
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{root: newNode()}
}

// Insert appends value under key. The key bytes are not retained.
func (t *Trie) Insert(key []byte, value uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.root
	for _, b := range key {
		child, ok := n.children[b]
		if !ok {
			child = newNode()
			n.children[b] = child
		}
		n = child
	}
	if len(n.values) == 0 {
		t.keys++
	}
	n.values = append(n.values, value)
}

// Find returns a copy of the values stored under key, or nil.
func (t *Trie) Find(key []byte) []uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := t.root
	for _, b := range key {
		n = n.children[b]
		if n == nil {
			return nil
		}
	}
	if len(n.values) == 0 {
		return nil
	}
	out := make([]uint64, len(n.values))
	copy(out, n.values)
	return out
}

// Len returns the number of distinct keys.
func (t *Trie) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.keys
}
