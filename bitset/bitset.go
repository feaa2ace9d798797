/*
Package bitset implements the fixed-size bit stores backing the Bloom filters.

BitSetMem uses https://github.com/bits-and-blooms/bitset and is the default.
BitSetRoaring uses compressed roaring bitmaps (https://github.com/RoaringBitmap/roaring) and
pays off for very large, sparsely filled filters.
BitSetRedis keeps the bits in a Redis string and uses the SETBIT/GETBIT/BITCOUNT commands.

Bits are never cleared: the stores offer no way to unset a bit.
*/
package bitset

// BitSet is an in-memory, fixed-size store of bits. Indexes must be below Len().
type BitSet interface {
	// Set sets the bit at index to true
	Set(index uint)

	// Test returns true if the bit at index is set
	Test(index uint) bool

	// Count returns the number of set bits
	Count() uint

	// Len returns the number of bits in the store
	Len() uint

	// Equal checks if two stores have the same length and the same set bits
	Equal(other BitSet) bool
}

func equalBits(a, b BitSet) bool {
	if a.Len() != b.Len() || a.Count() != b.Count() {
		return false
	}
	for i := uint(0); i < a.Len(); i++ {
		if a.Test(i) != b.Test(i) {
			return false
		}
	}
	return true
}
