package gen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastRandom_KnownSequence(t *testing.T) {
	// Same recurrence and seed scrambling as java.util.Random.
	r := NewFastRandom(0)
	assert.Equal(t, uint32(3139482720), r.Uint32())
	assert.Equal(t, uint32(3571011896), r.Uint32())

	r = NewFastRandom(0)
	assert.Equal(t, uint64(3139482720)<<32+uint64(3571011896), r.Uint64())
}

func TestFastRandom_Deterministic(t *testing.T) {
	a, b := NewFastRandom(42), NewFastRandom(42)
	c := NewFastRandom(43)
	same := true
	for i := 0; i < 100; i++ {
		x := a.Uint64()
		require.Equal(t, x, b.Uint64())
		if x != c.Uint64() {
			same = false
		}
	}
	assert.False(t, same, "different seeds should diverge")
}

func TestFastRandom_Uniform(t *testing.T) {
	r := NewFastRandom(7)
	var sum float64
	const n = 100000
	for i := 0; i < n; i++ {
		u := r.NextUniform()
		require.GreaterOrEqual(t, u, 0.0)
		require.Less(t, u, 1.0)
		sum += u
	}
	assert.InDelta(t, 0.5, sum/n, 0.01)
}

func TestFastRandom_Readable(t *testing.T) {
	r := NewFastRandom(1)
	s := r.NextReadableString(256)
	require.Len(t, s, 256)
	for i := 0; i < len(s); i++ {
		assert.Contains(t, readables, string(s[i]))
	}
}

func TestBatchKeys_SingleWorker(t *testing.T) {
	space := NewKeySpace(0)
	g := NewBatchKeys(space, 0)
	assert.Equal(t, uint64(0), g.RandomKey(), "nothing reserved yet")

	for i := uint64(0); i < 3000; i++ {
		require.Equal(t, i, g.InsertKey())
	}
	// 3000 keys touch three windows.
	assert.Equal(t, uint64(3*BatchSize), space.Current())
	for i := 0; i < 1000; i++ {
		assert.Less(t, g.RandomKey(), space.Current())
	}
}

func TestBatchKeys_ConcurrentWindowsDisjoint(t *testing.T) {
	const workers, perWorker = 4, 10000
	space := NewKeySpace(0)
	out := make([][]uint64, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			g := NewBatchKeys(space, uint64(w))
			keys := make([]uint64, perWorker)
			for i := range keys {
				keys[i] = g.InsertKey()
			}
			out[w] = keys
		}(w)
	}
	wg.Wait()

	seen := make(map[uint64]struct{}, workers*perWorker)
	for _, keys := range out {
		for i, k := range keys {
			if i > 0 {
				require.Greater(t, k, keys[i-1], "keys within a worker increase")
			}
			_, dup := seen[k]
			require.False(t, dup, "key %d generated twice", k)
			seen[k] = struct{}{}
		}
	}
	assert.Len(t, seen, workers*perWorker)

	// Each worker reserves ceil(10000/1024) = 10 windows.
	windows := uint64((perWorker + BatchSize - 1) / BatchSize)
	assert.Equal(t, workers*windows*BatchSize, space.Current())
	for k := range seen {
		assert.Less(t, k, space.Current())
	}
}

func TestBatchKeys_ExactWindows(t *testing.T) {
	const workers, perWorker = 4, 4 * BatchSize
	space := NewKeySpace(0)

	var mu sync.Mutex
	seen := make(map[uint64]struct{})
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			g := NewBatchKeys(space, uint64(w))
			local := make([]uint64, perWorker)
			for i := range local {
				local[i] = g.InsertKey()
			}
			mu.Lock()
			for _, k := range local {
				seen[k] = struct{}{}
			}
			mu.Unlock()
		}(w)
	}
	wg.Wait()

	// Whole windows consumed: the keys are exactly [0, workers*perWorker).
	require.Len(t, seen, workers*perWorker)
	for k := uint64(0); k < workers*perWorker; k++ {
		_, ok := seen[k]
		require.True(t, ok, "missing key %d", k)
	}
}

func TestBatchKeys_Bounded(t *testing.T) {
	space := NewKeySpace(100)
	g := NewBatchKeys(space, 3)
	for i := 0; i < 10000; i++ {
		require.Less(t, g.InsertKey(), uint64(100))
		require.Less(t, g.RandomKey(), uint64(100))
	}
	assert.Equal(t, uint64(0), space.Current(), "bounded mode never reserves")
}

func TestBatchKeys_SeededReproducible(t *testing.T) {
	a := NewBatchKeys(NewKeySpace(1<<20), 5)
	b := NewBatchKeys(NewKeySpace(1<<20), 5)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.InsertKey(), b.InsertKey())
	}
}

func TestLognormalKeys(t *testing.T) {
	const upper = 1 << 20
	var g KeyGenerator = NewLognormalKeys(9, upper, 1.0)
	below := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if g.InsertKey() < upper/10 {
			below++
		}
		require.Less(t, g.RandomKey(), uint64(upper))
	}
	// Median of lognormal(0, s) is 1, so about half the keys fall under upper/10.
	assert.InDelta(t, 0.5, float64(below)/n, 0.05)
}
