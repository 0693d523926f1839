package table

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_InsertGet(t *testing.T) {
	tbl := New(&Config{ChunkTuples: 4})
	defer tbl.Close()

	var offs []Offset
	for i := uint64(0); i < 10; i++ {
		offs = append(offs, tbl.Insert(i, i*10))
	}
	assert.Equal(t, 10, tbl.ApproxSize())
	assert.Equal(t, int64(3*4*TupleSize), tbl.MemoryBytes())

	for i, off := range offs {
		tup, ok := tbl.Get(off)
		require.True(t, ok)
		assert.Equal(t, uint64(i), tup.Key)
		assert.Equal(t, uint64(i*10), tup.Value)
	}
	assert.Equal(t, uint64(2), offs[9].Chunk())
	assert.Equal(t, uint64(1), offs[9].Slot())

	_, ok := tbl.Get(makeOffset(2, 3))
	assert.False(t, ok, "slot beyond size")
	_, ok = tbl.Get(makeOffset(0, 7))
	assert.False(t, ok, "slot beyond chunk capacity")
}

func TestTable_Scan(t *testing.T) {
	tbl := New(&Config{ChunkTuples: 3})
	defer tbl.Close()
	for i := uint64(0); i < 7; i++ {
		tbl.Insert(100+i, i)
	}

	var keys, values []uint64
	tbl.Scan(func(k, v uint64) bool {
		keys = append(keys, k)
		values = append(values, v)
		return true
	})
	assert.Equal(t, []uint64{100, 101, 102, 103, 104, 105, 106}, keys)
	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6}, values)

	var offs []uint64
	tbl.Offsets().Scan(func(_, raw uint64) bool {
		offs = append(offs, raw)
		return len(offs) < 4
	})
	require.Len(t, offs, 4)
	assert.Equal(t, makeOffset(1, 0).Raw(), offs[3])
	assert.Equal(t, 7, tbl.Offsets().ApproxSize())
}

func TestTable_ConcurrentInsert(t *testing.T) {
	tbl := New(&Config{ChunkTuples: 128})
	defer tbl.Close()

	const writers, perWriter = 8, 1000
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				tbl.Insert(uint64(w*perWriter+i), uint64(w))
			}
		}(w)
	}
	wg.Wait()

	require.Equal(t, writers*perWriter, tbl.ApproxSize())
	seen := make(map[uint64]bool)
	tbl.Scan(func(k, _ uint64) bool {
		seen[k] = true
		return true
	})
	assert.Len(t, seen, writers*perWriter)
}

func TestTable_Offheap(t *testing.T) {
	tbl := New(&Config{ChunkTuples: 1024, UseOffheap: true})
	for i := uint64(0); i < 3000; i++ {
		tbl.Insert(i, ^i)
	}
	tup, ok := tbl.Get(makeOffset(2, 10))
	require.True(t, ok)
	assert.Equal(t, uint64(2058), tup.Key)
	assert.Equal(t, ^uint64(2058), tup.Value)
	assert.Equal(t, 0, tbl.pool.OffheapFallbacks())
	require.NoError(t, tbl.Close())
}

func TestOffset_Raw(t *testing.T) {
	off := makeOffset(7, 42)
	back := OffsetFromRaw(off.Raw())
	assert.Equal(t, uint64(7), back.Chunk())
	assert.Equal(t, uint64(42), back.Slot())
	assert.Equal(t, "7:42", back.String())
}
