package gen

import (
	"math/rand/v2"
	"sync/atomic"
)

// BatchSize is the number of keys a worker reserves from the shared counter
// at a time.
const BatchSize = 1 << 10

// KeyGenerator produces workload keys for one worker.
type KeyGenerator interface {
	// InsertKey returns the next key to insert.
	InsertKey() uint64
	// RandomKey returns a key to look up. It may not have been inserted yet.
	RandomKey() uint64
}

// KeySpace is the key counter shared by every worker of a run.
type KeySpace struct {
	curr atomic.Uint64
	max  uint64
}

// NewKeySpace creates a key space. maxKeys == 0 means unbounded growth:
// insert keys are unique and increasing. Otherwise keys are drawn from
// [0, maxKeys) and may repeat.
func NewKeySpace(maxKeys uint64) *KeySpace {
	return &KeySpace{max: maxKeys}
}

// Max returns the configured bound, 0 when unbounded.
func (s *KeySpace) Max() uint64 { return s.max }

// Current returns how many keys have been reserved so far.
func (s *KeySpace) Current() uint64 { return s.curr.Load() }

// reserve claims n consecutive keys and returns the first.
func (s *KeySpace) reserve(n uint64) uint64 {
	return s.curr.Add(n) - n
}

// BatchKeys generates keys for a single worker. In unbounded mode it serves
// insert keys from a private window reserved from the KeySpace, touching the
// shared counter once per BatchSize keys. Windows of different workers never
// overlap.
type BatchKeys struct {
	space     *KeySpace
	rng       *rand.Rand
	localCurr uint64
	localMax  uint64
}

// NewBatchKeys creates a generator for worker threadID.
func NewBatchKeys(space *KeySpace, threadID uint64) *BatchKeys {
	return &BatchKeys{
		space: space,
		rng:   rand.New(NewFastRandom(threadID)),
	}
}

// InsertKey implements KeyGenerator.
func (b *BatchKeys) InsertKey() uint64 {
	if b.space.max != 0 {
		return b.rng.Uint64N(b.space.max)
	}
	if b.localCurr == b.localMax {
		b.localCurr = b.space.reserve(BatchSize)
		b.localMax = b.localCurr + BatchSize
	}
	key := b.localCurr
	b.localCurr++
	return key
}

// RandomKey implements KeyGenerator. In unbounded mode it samples the
// reserved range [0, Current()), returning 0 while nothing is reserved.
func (b *BatchKeys) RandomKey() uint64 {
	if b.space.max != 0 {
		return b.rng.Uint64N(b.space.max)
	}
	curr := b.space.Current()
	if curr == 0 {
		return 0
	}
	return b.rng.Uint64N(curr)
}
