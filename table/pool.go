package table

import (
	"errors"
	"runtime"
	"sync"
)

// Pool hands out chunks and owns them until Close.
type Pool struct {
	mu             sync.Mutex
	chunks         []Chunk
	tuplesPerChunk int
	UseOffheap     bool // when true, chunks are anonymous mmap regions
	offheapErrs    int
}

// NewPool creates a chunk pool. tuplesPerChunk determines the chunk capacity.
func NewPool(tuplesPerChunk int) *Pool {
	if tuplesPerChunk <= 0 {
		tuplesPerChunk = defaultChunkTuples
	}
	p := &Pool{
		chunks:         make([]Chunk, 0),
		tuplesPerChunk: tuplesPerChunk,
	}
	runtime.SetFinalizer(p, (*Pool).Close)
	return p
}

// AllocChunk allocates a new chunk. Falls back to the heap if mapping fails.
func (p *Pool) AllocChunk() Chunk {
	p.mu.Lock()
	defer p.mu.Unlock()
	var c Chunk
	if p.UseOffheap {
		mc, err := NewMmapChunk(p.tuplesPerChunk)
		if err == nil {
			c = mc
		} else {
			p.offheapErrs++
		}
	}
	if c == nil {
		c = NewHeapChunk(p.tuplesPerChunk)
	}
	p.chunks = append(p.chunks, c)
	return c
}

// ChunkCount returns the number of allocated chunks.
func (p *Pool) ChunkCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.chunks)
}

// OffheapFallbacks returns how many off-heap allocations fell back to the heap.
func (p *Pool) OffheapFallbacks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offheapErrs
}

// Close releases every chunk. The pool must not be used afterwards.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	for _, c := range p.chunks {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.chunks = nil
	runtime.SetFinalizer(p, nil)
	return errors.Join(errs...)
}
