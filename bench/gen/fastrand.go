package gen

const (
	lcgMultiplier = 0x5DEECE66D
	lcgAddend     = 0xB
	lcgMask       = 1<<48 - 1
)

const readables = "0123456789@ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// FastRandom is a 48-bit linear congruential generator, cheap enough to call
// once per benchmark operation. It implements math/rand/v2.Source, so
// rand.New(NewFastRandom(seed)) gives unbiased bounded draws on top of it.
// Not safe for concurrent use; give each worker its own.
type FastRandom struct {
	seed uint64
}

// NewFastRandom creates a generator; equal seeds give equal sequences.
func NewFastRandom(seed uint64) *FastRandom {
	return &FastRandom{seed: (seed ^ lcgMultiplier) & lcgMask}
}

func (r *FastRandom) next(bits uint) uint64 {
	r.seed = (r.seed*lcgMultiplier + lcgAddend) & lcgMask
	return r.seed >> (48 - bits)
}

// Uint64 returns 64 pseudo-random bits built from two 32-bit draws.
func (r *FastRandom) Uint64() uint64 {
	return r.next(32)<<32 + r.next(32)
}

// Uint32 returns 32 pseudo-random bits.
func (r *FastRandom) Uint32() uint32 { return uint32(r.next(32)) }

// NextUniform returns a float64 in [0.0, 1.0).
func (r *FastRandom) NextUniform() float64 {
	return float64(r.next(26)<<27+r.next(27)) / float64(uint64(1)<<53)
}

// NextReadableChar returns one of 64 printable ASCII characters.
func (r *FastRandom) NextReadableChar() byte {
	return readables[r.next(6)]
}

// NextReadableBytes fills dst with printable characters.
func (r *FastRandom) NextReadableBytes(dst []byte) {
	for i := range dst {
		dst[i] = r.NextReadableChar()
	}
}

// NextReadableString returns n printable characters.
func (r *FastRandom) NextReadableString(n int) string {
	b := make([]byte, n)
	r.NextReadableBytes(b)
	return string(b)
}

// Seed returns the current internal state.
func (r *FastRandom) Seed() uint64 { return r.seed }
