package bitset

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/kwertop/uniqstat"
)

// BitSetRoaring is a BitSet kept as a compressed roaring bitmap. Memory grows with the
// number of set bits rather than with _size_, up to a fixed ceiling.
type BitSetRoaring struct {
	bitmap *roaring.Bitmap
	size   uint
}

// NewBitSetRoaring creates a BitSetRoaring of _size_ bits. Roaring bitmaps index with
// uint32, so _size_ can't exceed 2^32.
func NewBitSetRoaring(size uint) (*BitSetRoaring, error) {
	if uint64(size) > math.MaxUint32+1 {
		return nil, fmt.Errorf("%w: roaring bitset size %d exceeds 2^32", uniqstat.ErrInvalidConfig, size)
	}
	return &BitSetRoaring{roaring.New(), size}, nil
}

func (bitSet *BitSetRoaring) Set(index uint) {
	bitSet.bitmap.Add(uint32(index))
}

func (bitSet *BitSetRoaring) Test(index uint) bool {
	return bitSet.bitmap.Contains(uint32(index))
}

func (bitSet *BitSetRoaring) Count() uint {
	return uint(bitSet.bitmap.GetCardinality())
}

func (bitSet *BitSetRoaring) Len() uint {
	return bitSet.size
}

// SizeInBytes reports the serialized size of the compressed bitmap.
func (bitSet *BitSetRoaring) SizeInBytes() uint64 {
	return bitSet.bitmap.GetSizeInBytes()
}

func (bitSet *BitSetRoaring) Equal(other BitSet) bool {
	if o, ok := other.(*BitSetRoaring); ok {
		return bitSet.size == o.size && bitSet.bitmap.Equals(o.bitmap)
	}
	return equalBits(bitSet, other)
}
