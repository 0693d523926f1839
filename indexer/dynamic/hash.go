package dynamic

import "sync"

const defaultShards = 64

type hashShard struct {
	mu sync.RWMutex
	m  map[uint64][]uint64
	_  [32]byte // keep neighbouring shard locks off one cache line
}

// HashIndex shards keys across RW-locked maps, routing by key % shards.
type HashIndex struct {
	shards []hashShard
}

// NewHashIndex creates a hash index. nShards <= 0 uses 64 shards.
func NewHashIndex(nShards int) *HashIndex {
	if nShards <= 0 {
		nShards = defaultShards
	}
	h := &HashIndex{shards: make([]hashShard, nShards)}
	for i := range h.shards {
		h.shards[i].m = make(map[uint64][]uint64)
	}
	return h
}

func (h *HashIndex) shard(key uint64) *hashShard {
	return &h.shards[key%uint64(len(h.shards))]
}

// Insert appends value to the values stored under key.
func (h *HashIndex) Insert(key, value uint64) {
	s := h.shard(key)
	s.mu.Lock()
	s.m[key] = append(s.m[key], value)
	s.mu.Unlock()
}

// Find returns a copy of the values stored under key in insertion order.
func (h *HashIndex) Find(key uint64) []uint64 {
	s := h.shard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	vals := s.m[key]
	if len(vals) == 0 {
		return nil
	}
	out := make([]uint64, len(vals))
	copy(out, vals)
	return out
}

// Len returns the number of distinct keys.
func (h *HashIndex) Len() int {
	n := 0
	for i := range h.shards {
		s := &h.shards[i]
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}
