package dynamic

import (
	"fmt"

	"github.com/ic-timon/karybench/indexer"
	"github.com/ic-timon/karybench/table"
)

// Index is an online key -> values index safe for concurrent Insert and Find.
type Index interface {
	Insert(key, value uint64)
	// Find returns every value stored under key, or nil.
	Find(key uint64) []uint64
}

// Reorganizer is implemented by indexes that support an explicit rebuild.
type Reorganizer interface {
	Reorganize() error
}

// Kind names an Index implementation.
type Kind string

const (
	KindHash Kind = "hash"
	KindKAry Kind = "kary"
)

// New creates an index of the given kind over tbl. cfg is only used by KindKAry.
func New(kind Kind, tbl *table.Table, cfg *indexer.Config) (Index, error) {
	switch kind {
	case KindHash, "":
		return NewHashIndex(0), nil
	case KindKAry:
		return NewHybridIndex(tbl, cfg, 0)
	default:
		return nil, fmt.Errorf("dynamic: unknown index kind %q", kind)
	}
}
