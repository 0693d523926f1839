package dynamic

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ic-timon/karybench/indexer"
	"github.com/ic-timon/karybench/table"
)

func TestHashIndex(t *testing.T) {
	h := NewHashIndex(4)
	h.Insert(1, 10)
	h.Insert(5, 50)
	h.Insert(1, 11)

	assert.Equal(t, []uint64{10, 11}, h.Find(1))
	assert.Equal(t, []uint64{50}, h.Find(5))
	assert.Nil(t, h.Find(2))
	assert.Equal(t, 2, h.Len())

	got := h.Find(1)
	got[0] = 99
	assert.Equal(t, []uint64{10, 11}, h.Find(1), "Find returns a copy")
}

func TestHashIndex_Concurrent(t *testing.T) {
	h := NewHashIndex(0)
	const writers, perWriter = 8, 2000
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				h.Insert(uint64(w*perWriter+i), uint64(i))
			}
		}(w)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = h.Find(uint64(i))
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, writers*perWriter, h.Len())
}

func TestHybridIndex(t *testing.T) {
	tbl := table.New(&table.Config{ChunkTuples: 16})
	defer tbl.Close()

	h, err := NewHybridIndex(tbl, &indexer.Config{NumLayers: 2, Fanout: 3}, 4)
	require.NoError(t, err)

	insert := func(key uint64) table.Offset {
		off := tbl.Insert(key, key*100)
		h.Insert(key, off.Raw())
		return off
	}
	offs := make(map[uint64]table.Offset)
	for k := uint64(0); k < 50; k++ {
		offs[k] = insert(k)
	}
	assert.Equal(t, []uint64{offs[7].Raw()}, h.Find(7), "served from delta before rebuild")

	require.NoError(t, h.Reorganize())
	assert.Equal(t, 0, h.DeltaLen())
	assert.Equal(t, 50, h.Static().Len())
	assert.Equal(t, []uint64{offs[7].Raw()}, h.Find(7), "served from snapshot after rebuild")

	dup := insert(7)
	assert.Equal(t, []uint64{offs[7].Raw(), dup.Raw()}, h.Find(7))
	assert.Nil(t, h.Find(1000))

	tup, ok := tbl.Get(table.OffsetFromRaw(h.Find(42)[0]))
	require.True(t, ok)
	assert.Equal(t, uint64(4200), tup.Value)
}

func TestHybridIndex_ReorganizeCapacity(t *testing.T) {
	tbl := table.New(nil)
	defer tbl.Close()
	h, err := NewHybridIndex(tbl, &indexer.Config{NumLayers: 3, Fanout: 4}, 0)
	require.NoError(t, err)
	for k := uint64(0); k < 10; k++ {
		h.Insert(k, tbl.Insert(k, 0).Raw())
	}
	assert.ErrorIs(t, h.Reorganize(), indexer.ErrCapacityExceeded)
	assert.Equal(t, 10, h.DeltaLen(), "delta kept when the rebuild fails")
}

func TestNew(t *testing.T) {
	tbl := table.New(nil)
	defer tbl.Close()

	idx, err := New(KindHash, tbl, nil)
	require.NoError(t, err)
	assert.IsType(t, &HashIndex{}, idx)
	_, isReorg := idx.(Reorganizer)
	assert.False(t, isReorg)

	idx, err = New(KindKAry, tbl, nil)
	require.NoError(t, err)
	_, isReorg = idx.(Reorganizer)
	assert.True(t, isReorg)

	_, err = New(KindKAry, tbl, &indexer.Config{Fanout: 1})
	assert.ErrorIs(t, err, indexer.ErrInvalidFanout)

	_, err = New("btree", tbl, nil)
	assert.Error(t, err)
}
