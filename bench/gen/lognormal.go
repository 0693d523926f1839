package gen

import (
	"math"
	"math/rand/v2"
)

// LognormalKeys draws insert keys from a lognormal distribution scaled by
// upper/10, producing a skewed key space; lookups stay uniform in [0, upper).
// Large draws may exceed upper.
type LognormalKeys struct {
	upper uint64
	sigma float64
	rng   *rand.Rand
}

// NewLognormalKeys creates a generator for worker threadID. upper must be
// positive.
func NewLognormalKeys(threadID, upper uint64, sigma float64) *LognormalKeys {
	return &LognormalKeys{
		upper: upper,
		sigma: sigma,
		rng:   rand.New(NewFastRandom(threadID)),
	}
}

// InsertKey implements KeyGenerator.
func (l *LognormalKeys) InsertKey() uint64 {
	return uint64(math.Exp(l.sigma*l.rng.NormFloat64()) * float64(l.upper) / 10)
}

// RandomKey implements KeyGenerator.
func (l *LognormalKeys) RandomKey() uint64 {
	return l.rng.Uint64N(l.upper)
}
