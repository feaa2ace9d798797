/*
Package hash derives the integer hash values used by the filters and the counters.

Two shapes are provided. A Family turns one item into k indexes within [0, m), which is what
a Bloom filter needs. A Hasher produces one wide hash per item, which is what the HyperLogLog
registers need: enough bits to pick a bucket and still measure a rank in the remainder.
None of the functions here are cryptographic.
*/
package hash

import (
	"github.com/dgryski/go-metro"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Sum32 returns the murmur3 (x86, 32-bit) hash of _data_ under _seed_.
// Seeds 0..k give k hash functions with low pairwise correlation.
func Sum32(data []byte, seed uint32) uint32 {
	return murmur3.Sum32WithSeed(data, seed)
}

// Hasher produces a single hash per item. Width reports how many low bits of the
// returned value carry hash output; the rest are zero.
type Hasher interface {
	Sum64(data []byte, seed uint64) uint64
	Width() uint
}

// Metro is the 64-bit metrohash.
type Metro struct{}

func (Metro) Sum64(data []byte, seed uint64) uint64 { return metro.Hash64(data, seed) }
func (Metro) Width() uint                           { return 64 }

// XXH3 is the 64-bit xxh3 hash.
type XXH3 struct{}

func (XXH3) Sum64(data []byte, seed uint64) uint64 { return xxh3.HashSeed(data, seed) }
func (XXH3) Width() uint                           { return 64 }

// Murmur3 is the 64-bit half of murmur3 x64_128. Only the low 32 bits of the seed are used.
type Murmur3 struct{}

func (Murmur3) Sum64(data []byte, seed uint64) uint64 {
	return murmur3.Sum64WithSeed(data, uint32(seed))
}
func (Murmur3) Width() uint { return 64 }

// Murmur3x32 is the 32-bit murmur3 hash widened to uint64. Counters built on it
// apply the large range correction.
type Murmur3x32 struct{}

func (Murmur3x32) Sum64(data []byte, seed uint64) uint64 {
	return uint64(murmur3.Sum32WithSeed(data, uint32(seed)))
}
func (Murmur3x32) Width() uint { return 32 }
