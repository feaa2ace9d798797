package bitset

import (
	"errors"
	"testing"

	"github.com/kwertop/uniqstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitSetRoaringSetTest(t *testing.T) {
	bitset, err := NewBitSetRoaring(1 << 30)
	require.NoError(t, err)
	bitset.Set(1)
	bitset.Set(1<<30 - 1)
	assert.True(t, bitset.Test(1))
	assert.True(t, bitset.Test(1<<30-1))
	assert.False(t, bitset.Test(2))
	assert.Equal(t, uint(2), bitset.Count())
	assert.Equal(t, uint(1<<30), bitset.Len())
}

// A sparse filter over a huge index space must stay small.
func TestBitSetRoaringSparseIsSmall(t *testing.T) {
	bitset, err := NewBitSetRoaring(1 << 32)
	require.NoError(t, err)
	for i := uint(0); i < 100; i++ {
		bitset.Set(i * 40_000_000)
	}
	assert.Less(t, bitset.SizeInBytes(), uint64(4096))
}

func TestBitSetRoaringTooLarge(t *testing.T) {
	_, err := NewBitSetRoaring(1<<32 + 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidConfig))
}

func TestBitSetRoaringEqual(t *testing.T) {
	a, _ := NewBitSetRoaring(64)
	b, _ := NewBitSetRoaring(64)
	a.Set(9)
	assert.False(t, a.Equal(b))
	b.Set(9)
	assert.True(t, a.Equal(b))
}
