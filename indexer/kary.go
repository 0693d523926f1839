package indexer

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// KAryIndex is a static index over a sorted snapshot of a Source, searched
// through a flattened k-ary router tree.
type KAryIndex[K cmp.Ordered] struct {
	cfg     *Config
	src     Source[K]
	mu      sync.Mutex // serializes Reorganize
	version atomic.Pointer[version[K]]
}

// version is one immutable build: snapshot, router and cached bounds.
type version[K cmp.Ordered] struct {
	snap     *Snapshot[K]
	router   *router[K] // nil when NumLayers is 0 or the snapshot is empty
	min, max K
}

// NewKAryIndex creates an index over src. Uses default config if cfg is nil.
// The index is empty until the first Reorganize.
func NewKAryIndex[K cmp.Ordered](src Source[K], cfg *Config) (*KAryIndex[K], error) {
	cfg = cfg.OrDefault()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &KAryIndex[K]{cfg: cfg, src: src}, nil
}

// Config returns the current configuration.
func (x *KAryIndex[K]) Config() *Config {
	return x.cfg
}

// Reorganize re-derives the snapshot from the source and rebuilds the router.
// On error the previously published version stays in place. An empty
// source rebuilds successfully at any depth, with no router.
func (x *KAryIndex[K]) Reorganize() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	snap := NewSnapshot(x.src)
	v := &version[K]{snap: snap}
	if n := snap.Len(); n > 0 {
		v.min, v.max = snap.entries[0].Key, snap.entries[n-1].Key
		if x.cfg.NumLayers > 0 {
			r, err := newRouter(snap, x.cfg.Fanout, x.cfg.NumLayers)
			if err != nil {
				return err
			}
			v.router = r
		}
	}
	x.version.Store(v)
	return nil
}

// Find returns the values of every entry with key, in snapshot order.
// Returns nil on a miss.
func (x *KAryIndex[K]) Find(key K) []uint64 {
	v := x.version.Load()
	if v == nil || v.snap.Len() == 0 {
		return nil
	}
	if key < v.min || key > v.max {
		return nil
	}
	if v.min == v.max {
		return v.snap.values(0, v.snap.Len()-1)
	}
	var pos int
	if v.router != nil {
		pos = v.router.locate(v.snap, key)
	} else {
		pos = v.snap.search(key, 0, v.snap.Len()-1)
	}
	if pos < 0 {
		return nil
	}
	return v.snap.values(v.snap.run(pos))
}

// FindRange returns the values of every entry with lhs <= key <= rhs in key
// order. Ranges entirely outside the snapshot bounds return nil.
func (x *KAryIndex[K]) FindRange(lhs, rhs K) ([]uint64, error) {
	if !(lhs < rhs) {
		return nil, ErrInvalidRange
	}
	v := x.version.Load()
	if v == nil || v.snap.Len() == 0 {
		return nil, nil
	}
	if lhs > v.max || rhs < v.min {
		return nil, nil
	}
	var lo int
	if v.router != nil {
		lo = v.router.lowerBound(v.snap, lhs)
	} else {
		lo = v.snap.lowerBound(lhs, 0, v.snap.Len()-1)
	}
	var out []uint64
	for i := lo; i < v.snap.Len() && v.snap.entries[i].Key <= rhs; i++ {
		out = append(out, v.snap.entries[i].Value)
	}
	return out, nil
}

// Len returns the number of entries in the current snapshot.
func (x *KAryIndex[K]) Len() int {
	if v := x.version.Load(); v != nil {
		return v.snap.Len()
	}
	return 0
}

// Bounds returns the smallest and largest key of the current snapshot.
// ok is false when the snapshot is empty.
func (x *KAryIndex[K]) Bounds() (lo, hi K, ok bool) {
	v := x.version.Load()
	if v == nil || v.snap.Len() == 0 {
		return lo, hi, false
	}
	return v.min, v.max, true
}

// SeparatorCount returns the number of router keys, Fanout^NumLayers-1, or 0
// when no router is built.
func (x *KAryIndex[K]) SeparatorCount() int {
	if v := x.version.Load(); v != nil && v.router != nil {
		return len(v.router.keys)
	}
	return 0
}

// Snapshot returns the current snapshot, or nil before the first Reorganize.
func (x *KAryIndex[K]) Snapshot() *Snapshot[K] {
	if v := x.version.Load(); v != nil {
		return v.snap
	}
	return nil
}

// Print writes the raw separator array, space separated, on one line.
func (x *KAryIndex[K]) Print(w io.Writer) error {
	v := x.version.Load()
	if v == nil || v.router == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	for _, k := range v.router.keys {
		fmt.Fprint(bw, k, " ")
	}
	fmt.Fprintln(bw)
	return bw.Flush()
}
