package bitset

import (
	"github.com/bits-and-blooms/bitset"
)

// BitSetMem is the default BitSet.
// _size_ is the number of bits in the bitset
// _set_ is the bitset implementation adopted from https://github.com/bits-and-blooms/bitset
type BitSetMem struct {
	set  *bitset.BitSet
	size uint
}

// NewBitSetMem creates a new BitSetMem of size _size_ with every bit unset
func NewBitSetMem(size uint) *BitSetMem {
	return &BitSetMem{bitset.New(size), size}
}

func (bitSet *BitSetMem) Set(index uint) {
	bitSet.set.Set(index)
}

func (bitSet *BitSetMem) Test(index uint) bool {
	return bitSet.set.Test(index)
}

func (bitSet *BitSetMem) Count() uint {
	return bitSet.set.Count()
}

func (bitSet *BitSetMem) Len() uint {
	return bitSet.size
}

// Equal checks if two bitsets are equal. Two BitSetMem are compared word by word.
func (bitSet *BitSetMem) Equal(other BitSet) bool {
	if o, ok := other.(*BitSetMem); ok {
		return bitSet.size == o.size && bitSet.set.Equal(o.set)
	}
	return equalBits(bitSet, other)
}
