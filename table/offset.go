package table

import "fmt"

// Offset locates a tuple inside a Table: chunk index in the high 32 bits,
// slot within the chunk in the low 32 bits.
type Offset uint64

func makeOffset(chunk, slot uint64) Offset {
	return Offset(chunk<<32 | slot&0xffffffff)
}

// OffsetFromRaw reinterprets raw bits produced by Offset.Raw.
func OffsetFromRaw(raw uint64) Offset {
	return Offset(raw)
}

// Raw returns the offset as opaque bits suitable for storing in an index.
func (o Offset) Raw() uint64 { return uint64(o) }

// Chunk returns the chunk index.
func (o Offset) Chunk() uint64 { return uint64(o) >> 32 }

// Slot returns the slot within the chunk.
func (o Offset) Slot() uint64 { return uint64(o) & 0xffffffff }

func (o Offset) String() string {
	return fmt.Sprintf("%d:%d", o.Chunk(), o.Slot())
}
