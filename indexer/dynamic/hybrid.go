package dynamic

import (
	"sync/atomic"

	"github.com/ic-timon/karybench/indexer"
	"github.com/ic-timon/karybench/table"
)

// HybridIndex serves lookups from a static k-ary snapshot of the table's
// offsets plus a hash delta of inserts made since the last Reorganize.
//
// Reorganize must not overlap Insert: a tuple inserted into the table during
// the rebuild could land in both the new snapshot and the discarded delta.
// Find is safe at any time.
type HybridIndex struct {
	static *indexer.KAryIndex[uint64]
	delta  atomic.Pointer[HashIndex]
	shards int
}

// NewHybridIndex creates a hybrid index over tbl. Uses default router config
// if cfg is nil.
func NewHybridIndex(tbl *table.Table, cfg *indexer.Config, nShards int) (*HybridIndex, error) {
	static, err := indexer.NewKAryIndex[uint64](tbl.Offsets(), cfg)
	if err != nil {
		return nil, err
	}
	h := &HybridIndex{static: static, shards: nShards}
	h.delta.Store(NewHashIndex(nShards))
	return h, nil
}

// Insert records value under key in the delta.
func (h *HybridIndex) Insert(key, value uint64) {
	h.delta.Load().Insert(key, value)
}

// Find returns snapshot values followed by delta values.
func (h *HybridIndex) Find(key uint64) []uint64 {
	vals := h.static.Find(key)
	if more := h.delta.Load().Find(key); len(more) > 0 {
		vals = append(vals, more...)
	}
	return vals
}

// Reorganize folds the delta into a rebuilt static snapshot.
func (h *HybridIndex) Reorganize() error {
	if err := h.static.Reorganize(); err != nil {
		return err
	}
	h.delta.Store(NewHashIndex(h.shards))
	return nil
}

// Static returns the static part.
func (h *HybridIndex) Static() *indexer.KAryIndex[uint64] {
	return h.static
}

// DeltaLen returns the number of distinct keys inserted since the last Reorganize.
func (h *HybridIndex) DeltaLen() int {
	return h.delta.Load().Len()
}
