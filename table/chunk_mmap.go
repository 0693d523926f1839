package table

import (
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// MmapChunk stores tuples in an anonymous memory mapping outside the Go heap.
type MmapChunk struct {
	region mmap.MMap
	tuples []Tuple
}

// NewMmapChunk maps an anonymous region large enough for n tuples.
func NewMmapChunk(n int) (*MmapChunk, error) {
	if n <= 0 {
		n = defaultChunkTuples
	}
	region, err := mmap.MapRegion(nil, n*TupleSize, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, err
	}
	tuples := unsafe.Slice((*Tuple)(unsafe.Pointer(&region[0])), n)
	return &MmapChunk{region: region, tuples: tuples}, nil
}

// Capacity returns the number of tuple slots.
func (c *MmapChunk) Capacity() int { return len(c.tuples) }

// Tuples returns a view of the mapped region. Invalid after Close.
func (c *MmapChunk) Tuples() []Tuple { return c.tuples }

// Close unmaps the region.
func (c *MmapChunk) Close() error {
	if c.region == nil {
		return nil
	}
	c.tuples = nil
	err := c.region.Unmap()
	c.region = nil
	return err
}
