package hash

import (
	"math"

	"github.com/dgryski/go-metro"
	"github.com/spaolacci/murmur3"
)

// Family derives _k_ indexes in [0, m) for one item. The indexes are appended to
// dst[:0] and the resulting slice is returned, so callers can reuse a buffer.
// The same item always yields the same indexes.
type Family interface {
	Indexes(data []byte, k, m uint, dst []uint) []uint
}

// Seeded evaluates Sum32 once per seed: index_i = Sum32(data, i) mod m for i in 0..k.
// A 32-bit hash can't reach bits past 2^32, so for larger m the 64-bit murmur3 is used
// with the same seeds.
type Seeded struct{}

func (Seeded) Indexes(data []byte, k, m uint, dst []uint) []uint {
	dst = dst[:0]
	if uint64(m) > math.MaxUint32+1 {
		for i := uint(0); i < k; i++ {
			dst = append(dst, uint(murmur3.Sum64WithSeed(data, uint32(i))%uint64(m)))
		}
		return dst
	}
	for i := uint(0); i < k; i++ {
		dst = append(dst, uint(Sum32(data, uint32(i)))%m)
	}
	return dst
}

// DoubleHashing evaluates metro Hash128 once and combines the two halves with enhanced
// double hashing: index_i = h1 + i*h2 + (i^3-i)/6 mod m.
// Refer: https://www.eecs.harvard.edu/~michaelm/postscripts/rsa2008.pdf
type DoubleHashing struct {
	Seed uint64
}

// DefaultDoubleHashingSeed is the seed used when DoubleHashing is left zero valued.
const DefaultDoubleHashingSeed = 1373

func (d DoubleHashing) Indexes(data []byte, k, m uint, dst []uint) []uint {
	seed := d.Seed
	if seed == 0 {
		seed = DefaultDoubleHashingSeed
	}
	h1, h2 := metro.Hash128(data, seed)
	dst = dst[:0]
	for i := uint64(0); i < uint64(k); i++ {
		// (i^3 - i) is always divisible by 6
		v := h1 + i*h2 + (i*i*i-i)/6
		dst = append(dst, uint(v%uint64(m)))
	}
	return dst
}
