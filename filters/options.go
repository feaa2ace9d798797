package filters

import (
	"github.com/kwertop/uniqstat/bitset"
	"github.com/kwertop/uniqstat/hash"
)

type options struct {
	family hash.Family
	bits   bitset.BitSet
}

// Option configures a BloomFilter at construction.
type Option func(*options)

// WithFamily sets the hash family deriving the k indexes of an item.
// hash.Seeded is used when the option is absent or nil is passed.
func WithFamily(f hash.Family) Option {
	return func(o *options) {
		if f == nil {
			f = hash.Seeded{}
		}
		o.family = f
	}
}

// WithBitSet sets the bit store. Its length must match the filter size.
// By default a bitset.BitSetMem is allocated.
func WithBitSet(b bitset.BitSet) Option {
	return func(o *options) {
		o.bits = b
	}
}

func collectOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o *options) familyOrDefault() hash.Family {
	if o.family == nil {
		return hash.Seeded{}
	}
	return o.family
}
