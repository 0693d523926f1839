package table

import "unsafe"

// Tuple is a single (key, value) record.
type Tuple struct {
	Key   uint64
	Value uint64
}

// TupleSize is the in-memory size of a Tuple in bytes.
const TupleSize = int(unsafe.Sizeof(Tuple{}))

// Chunk is a fixed-capacity run of tuples, on the heap or off-heap.
type Chunk interface {
	Capacity() int
	Tuples() []Tuple
	Close() error // releases resources; no-op for heap chunks
}

// HeapChunk stores tuples in a Go slice.
type HeapChunk struct {
	tuples []Tuple
}

// NewHeapChunk creates a heap chunk holding n tuples.
func NewHeapChunk(n int) *HeapChunk {
	if n <= 0 {
		n = defaultChunkTuples
	}
	return &HeapChunk{tuples: make([]Tuple, n)}
}

// Capacity returns the number of tuple slots.
func (c *HeapChunk) Capacity() int { return len(c.tuples) }

// Tuples returns the backing slice.
func (c *HeapChunk) Tuples() []Tuple { return c.tuples }

// Close is a no-op for heap chunks.
func (c *HeapChunk) Close() error { return nil }
