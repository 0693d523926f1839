package table

import (
	"sync"
	"sync/atomic"
)

// Table is an append-only tuple store. Insert, Get and Scan are safe for
// concurrent use; ApproxSize is lock-free.
type Table struct {
	cfg    *Config
	pool   *Pool
	mu     sync.Mutex
	chunks []Chunk // append-only, guarded by mu
	size   atomic.Uint64
}

// New creates an empty table. Uses default config if cfg is nil.
func New(cfg *Config) *Table {
	cfg = cfg.OrDefault()
	pool := NewPool(cfg.ChunkTuples)
	pool.UseOffheap = cfg.UseOffheap
	return &Table{cfg: cfg, pool: pool}
}

// Config returns the current configuration.
func (t *Table) Config() *Config {
	return t.cfg
}

// Insert appends a tuple and returns where it was stored.
func (t *Table) Insert(key, value uint64) Offset {
	per := uint64(t.cfg.ChunkTuples)
	t.mu.Lock()
	n := t.size.Load()
	ci, slot := n/per, n%per
	if slot == 0 {
		t.chunks = append(t.chunks, t.pool.AllocChunk())
	}
	t.chunks[ci].Tuples()[slot] = Tuple{Key: key, Value: value}
	t.size.Store(n + 1)
	t.mu.Unlock()
	return makeOffset(ci, slot)
}

// Get returns the tuple stored at off.
func (t *Table) Get(off Offset) (Tuple, bool) {
	per := uint64(t.cfg.ChunkTuples)
	t.mu.Lock()
	defer t.mu.Unlock()
	if off.Slot() >= per || off.Chunk()*per+off.Slot() >= t.size.Load() {
		return Tuple{}, false
	}
	return t.chunks[off.Chunk()].Tuples()[off.Slot()], true
}

// ApproxSize returns the number of tuples inserted so far. It may lag
// concurrent inserts.
func (t *Table) ApproxSize() int {
	return int(t.size.Load())
}

// MemoryBytes returns the bytes reserved by allocated chunks.
func (t *Table) MemoryBytes() int64 {
	return int64(t.pool.ChunkCount()) * int64(t.cfg.ChunkTuples) * int64(TupleSize)
}

// Scan calls fn for every tuple committed before the call, in insertion
// order, until fn returns false.
func (t *Table) Scan(fn func(key, value uint64) bool) {
	t.scan(func(_ Offset, tup Tuple) bool { return fn(tup.Key, tup.Value) })
}

func (t *Table) scan(fn func(off Offset, tup Tuple) bool) {
	t.mu.Lock()
	chunks := t.chunks
	n := t.size.Load()
	t.mu.Unlock()

	per := uint64(t.cfg.ChunkTuples)
	for ci := uint64(0); ci*per < n; ci++ {
		tuples := chunks[ci].Tuples()
		limit := min(per, n-ci*per)
		for slot := uint64(0); slot < limit; slot++ {
			if !fn(makeOffset(ci, slot), tuples[slot]) {
				return
			}
		}
	}
}

// Offsets returns a view of t whose values are tuple offsets instead of
// tuple values, for indexes that reference rows by location.
func (t *Table) Offsets() OffsetView {
	return OffsetView{t: t}
}

// Close releases all chunks.
func (t *Table) Close() error {
	return t.pool.Close()
}

// OffsetView scans a Table yielding (key, offset.Raw()) pairs.
type OffsetView struct {
	t *Table
}

// Scan calls fn with each key and the raw offset of its tuple.
func (v OffsetView) Scan(fn func(key, value uint64) bool) {
	v.t.scan(func(off Offset, tup Tuple) bool { return fn(tup.Key, off.Raw()) })
}

// ApproxSize returns the underlying table's size.
func (v OffsetView) ApproxSize() int {
	return v.t.ApproxSize()
}
