package filters

import (
	"fmt"
	"math"

	"github.com/kwertop/uniqstat"
	"github.com/kwertop/uniqstat/bitset"
	"github.com/kwertop/uniqstat/hash"
)

// BloomFilter is an in-memory Bloom filter.
// _size_ is the number of bits, _numHashes_ the number of indexes set or checked per item.
// It isn't safe for concurrent use: guard writers (and readers racing them) with a lock.
type BloomFilter struct {
	size      uint
	numHashes uint
	family    hash.Family
	filter    bitset.BitSet
}

// NewBloomFilter creates a BloomFilter of _size_ bits using _numHashes_ hash functions.
// Both must be positive.
func NewBloomFilter(size, numHashes uint, opts ...Option) (*BloomFilter, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: bloom filter size must be positive", uniqstat.ErrInvalidConfig)
	}
	if numHashes == 0 {
		return nil, fmt.Errorf("%w: bloom filter needs at least one hash function", uniqstat.ErrInvalidConfig)
	}
	o := collectOptions(opts)
	if o.bits == nil {
		o.bits = bitset.NewBitSetMem(size)
	} else if o.bits.Len() != size {
		return nil, fmt.Errorf("%w: size of bitset %d doesn't match with size %d passed", uniqstat.ErrInvalidConfig, o.bits.Len(), size)
	}
	return &BloomFilter{
		size:      size,
		numHashes: numHashes,
		family:    o.familyOrDefault(),
		filter:    o.bits,
	}, nil
}

// NewBloomFilterWithParameters creates a BloomFilter sized for _numItems_ items at
// false positive rate _errorRate_, which must be in (0, 1).
func NewBloomFilterWithParameters(numItems uint, errorRate float64, opts ...Option) (*BloomFilter, error) {
	if numItems == 0 {
		return nil, fmt.Errorf("%w: expected number of items must be positive", uniqstat.ErrInvalidConfig)
	}
	if errorRate <= 0 || errorRate >= 1 {
		return nil, fmt.Errorf("%w: error rate %v not in (0, 1)", uniqstat.ErrInvalidConfig, errorRate)
	}
	size := OptimalSize(numItems, errorRate)
	return NewBloomFilter(size, OptimalNumHashes(size, numItems), opts...)
}

// Add sets the k bits of _data_. Adding the same item again changes nothing.
func (bloomFilter *BloomFilter) Add(data []byte) {
	for _, index := range bloomFilter.indexes(data) {
		bloomFilter.filter.Set(index)
	}
}

// Contains returns false if any of the k bits of _data_ is unset, meaning _data_ was
// definitely never added. It returns true if all are set, in which case _data_ was
// probably added.
func (bloomFilter *BloomFilter) Contains(data []byte) bool {
	for _, index := range bloomFilter.indexes(data) {
		if !bloomFilter.filter.Test(index) {
			return false
		}
	}
	return true
}

// AddString accepts string value as _data_ for inserting into the Bloom filter
func (bloomFilter *BloomFilter) AddString(data string) {
	bloomFilter.Add([]byte(data))
}

// ContainsString accepts string value as _data_ to lookup the Bloom filter
func (bloomFilter *BloomFilter) ContainsString(data string) bool {
	return bloomFilter.Contains([]byte(data))
}

// Size returns the number of bits of the bloom filter
func (bloomFilter *BloomFilter) Size() uint {
	return bloomFilter.size
}

// NumHashes returns the number of hash functions used in the bloom filter
func (bloomFilter *BloomFilter) NumHashes() uint {
	return bloomFilter.numHashes
}

// BitCount returns the number of set bits
func (bloomFilter *BloomFilter) BitCount() uint {
	return bloomFilter.filter.Count()
}

// FalsePositiveRate estimates the current false positive rate from the fill ratio:
// (set bits / m)^k
func (bloomFilter *BloomFilter) FalsePositiveRate() float64 {
	fill := float64(bloomFilter.filter.Count()) / float64(bloomFilter.size)
	return math.Pow(fill, float64(bloomFilter.numHashes))
}

// ApproximateCount estimates how many distinct items were added from the number of
// set bits: -(m/k) ln(1 - X/m)
func (bloomFilter *BloomFilter) ApproximateCount() float64 {
	x := float64(bloomFilter.filter.Count())
	m := float64(bloomFilter.size)
	if x >= m {
		return math.Inf(1)
	}
	return -m / float64(bloomFilter.numHashes) * math.Log(1-x/m)
}

// Equals checks if two BloomFilter's have the same parameters and the same set bits
func (aFilter *BloomFilter) Equals(bFilter *BloomFilter) bool {
	if aFilter.size != bFilter.size || aFilter.numHashes != bFilter.numHashes {
		return false
	}
	return aFilter.filter.Equal(bFilter.filter)
}

func (bloomFilter *BloomFilter) indexes(data []byte) []uint {
	var scratch [16]uint
	return bloomFilter.family.Indexes(data, bloomFilter.numHashes, bloomFilter.size, scratch[:0])
}
