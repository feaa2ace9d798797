package filters

import (
	"encoding/binary"
	"errors"
	"strconv"
	"testing"

	"github.com/kwertop/uniqstat"
	"github.com/kwertop/uniqstat/bitset"
	"github.com/kwertop/uniqstat/hash"
	"github.com/kwertop/uniqstat/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBloomFilterRejectsBadConfig(t *testing.T) {
	_, err := NewBloomFilter(0, 3)
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidConfig))
	_, err = NewBloomFilter(100, 0)
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidConfig))
	_, err = NewBloomFilterWithParameters(0, 0.01)
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidConfig))
	_, err = NewBloomFilterWithParameters(100, 1)
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidConfig))
	_, err = NewBloomFilterWithParameters(100, 0)
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidConfig))
}

func TestFilterSizeError(t *testing.T) {
	_, err := NewBloomFilter(100, 4, WithBitSet(bitset.NewBitSetMem(1000)))
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidConfig), "should error out as size doesn't match")
}

func testFilterWithBitset(t *testing.T, filter *BloomFilter) {
	b1 := []byte("John")
	b2 := []byte("Jane")
	b3 := []byte("Alice")
	b4 := []byte("Bob")
	filter.Add(b1)
	assert.False(t, filter.Contains(b2), "%s should not be in filter", b2)
	assert.True(t, filter.Contains(b1), "%s should be in filter", b1)
	filter.Add(b3)
	assert.False(t, filter.Contains(b4), "%s should not be in filter", b4)
	assert.True(t, filter.Contains(b3), "%s should be in filter", b3)
}

func TestFilterWithBitSetMem(t *testing.T) {
	filter, err := NewBloomFilter(1000, 4)
	require.NoError(t, err)
	testFilterWithBitset(t, filter)
}

func TestFilterWithBitSetRoaring(t *testing.T) {
	bits, err := bitset.NewBitSetRoaring(1000)
	require.NoError(t, err)
	filter, err := NewBloomFilter(1000, 4, WithBitSet(bits))
	require.NoError(t, err)
	testFilterWithBitset(t, filter)
}

func TestFilterWithDoubleHashing(t *testing.T) {
	filter, err := NewBloomFilter(1000, 4, WithFamily(hash.DoubleHashing{}))
	require.NoError(t, err)
	testFilterWithBitset(t, filter)
}

func TestInt32(t *testing.T) {
	filter, _ := NewBloomFilter(1000, 4)
	e1 := make([]byte, 4)
	e2 := make([]byte, 4)
	e3 := make([]byte, 4)
	binary.BigEndian.PutUint32(e1, 100)
	binary.BigEndian.PutUint32(e2, 101)
	binary.BigEndian.PutUint32(e3, 102)
	filter.Add(e1)
	assert.True(t, filter.Contains(e1))
	assert.False(t, filter.Contains(e2))
	filter.Add(e3)
	assert.True(t, filter.Contains(e3))
}

func TestPasswordScenario(t *testing.T) {
	filter, err := NewBloomFilter(1000, 3)
	require.NoError(t, err)
	for _, p := range []string{"password123", "admin123", "qwerty123"} {
		filter.AddString(p)
	}
	assert.True(t, filter.ContainsString("password123"))
	assert.True(t, filter.ContainsString("admin123"))
	assert.True(t, filter.ContainsString("qwerty123"))
	assert.False(t, filter.ContainsString("guest"))
}

func TestEmptyItemIsAccepted(t *testing.T) {
	filter, _ := NewBloomFilter(100, 3)
	assert.False(t, filter.Contains(nil))
	filter.Add([]byte{})
	assert.True(t, filter.Contains(nil))
}

func TestNoFalseNegatives(t *testing.T) {
	for _, family := range []hash.Family{hash.Seeded{}, hash.DoubleHashing{}} {
		// deliberately overloaded so that most bits are set
		filter, _ := NewBloomFilter(512, 5, WithFamily(family))
		items := make([]string, 0, 2000)
		for i := 0; i < 2000; i++ {
			item := util.GenerateRandomString(12)
			items = append(items, item)
			filter.AddString(item)
		}
		for _, item := range items {
			require.True(t, filter.ContainsString(item), "%s added but not found", item)
		}
	}
}

func TestAddIsIdempotent(t *testing.T) {
	once, _ := NewBloomFilter(1000, 4)
	twice, _ := NewBloomFilter(1000, 4)
	for i := 0; i < 50; i++ {
		item := []byte(strconv.Itoa(i))
		once.Add(item)
		twice.Add(item)
		twice.Add(item)
	}
	assert.True(t, once.Equals(twice))
	assert.Equal(t, once.BitCount(), twice.BitCount())
}

func TestBitsAreMonotonic(t *testing.T) {
	filter, _ := NewBloomFilter(2048, 3)
	previous := make([]bool, filter.Size())
	for i := 0; i < 300; i++ {
		filter.AddString(util.GenerateRandomString(8))
		for j := range previous {
			set := filter.filter.Test(uint(j))
			require.False(t, previous[j] && !set, "bit %d was cleared", j)
			previous[j] = set
		}
	}
}

func TestFalsePositiveRateWithFewItems(t *testing.T) {
	filter, _ := NewBloomFilter(1000, 3)
	for _, p := range []string{"password123", "admin123", "qwerty123"} {
		filter.AddString(p)
	}
	const probes = 10000
	positives := 0
	for i := 0; i < probes; i++ {
		if filter.ContainsString(util.GenerateRandomString(16)) {
			positives++
		}
	}
	assert.Less(t, float64(positives)/probes, 0.05)
}

func testPositiveRate(t *testing.T, nItems uint, errorRate float64) {
	filter, err := NewBloomFilterWithParameters(nItems, errorRate)
	require.NoError(t, err)
	e := make([]byte, 4)
	for i := uint32(0); i < uint32(nItems); i++ {
		binary.BigEndian.PutUint32(e, i)
		filter.Add(e)
	}
	const probes = 20000
	positives := 0
	for i := uint32(0); i < probes; i++ {
		binary.BigEndian.PutUint32(e, uint32(nItems)+i)
		if filter.Contains(e) {
			positives++
		}
	}
	measured := float64(positives) / probes
	assert.Less(t, measured, 2*errorRate, "measured false positive rate too high for nItems %d", nItems)

	expected := ExpectedFalsePositiveRate(filter.Size(), filter.NumHashes(), nItems)
	assert.InDelta(t, expected, filter.FalsePositiveRate(), expected*0.5)
	assert.InEpsilon(t, float64(nItems), filter.ApproximateCount(), 0.05)
}

func TestPositiveRate10000_001(t *testing.T) {
	testPositiveRate(t, 10000, 0.01)
}

func TestPositiveRate100000_001(t *testing.T) {
	testPositiveRate(t, 100000, 0.01)
}

func TestPositiveRate10000_01(t *testing.T) {
	testPositiveRate(t, 10000, 0.1)
}

func TestGetSize(t *testing.T) {
	filter, _ := NewBloomFilter(1000, 4)
	assert.Equal(t, filter.size, filter.Size())
	assert.Equal(t, filter.numHashes, filter.NumHashes())
}

func TestNotEquals(t *testing.T) {
	aFilter, _ := NewBloomFilter(1000, 4)
	bFilter, _ := NewBloomFilter(100, 4)
	cFilter, _ := NewBloomFilter(1000, 6)
	assert.False(t, aFilter.Equals(bFilter))
	assert.False(t, aFilter.Equals(cFilter))
}

func TestEquals(t *testing.T) {
	size, numHashes := uint(1000), uint(4)
	aFilter, _ := NewBloomFilter(size, numHashes)
	bFilter, _ := NewBloomFilter(size, numHashes)
	e := make([]byte, 4)
	for i := uint32(0); i < uint32(size); i++ {
		binary.BigEndian.PutUint32(e, i)
		aFilter.Add(e)
		bFilter.Add(e)
	}
	assert.True(t, aFilter.Equals(bFilter))
}

func BenchmarkBloomAdd(b *testing.B) {
	filter, _ := NewBloomFilterWithParameters(1_000_000, 0.01)
	e := make([]byte, 4)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		binary.BigEndian.PutUint32(e, uint32(i))
		filter.Add(e)
	}
}

func BenchmarkBloomContains(b *testing.B) {
	filter, _ := NewBloomFilterWithParameters(1_000_000, 0.01)
	e := make([]byte, 4)
	for i := 0; i < 1_000_000; i++ {
		binary.BigEndian.PutUint32(e, uint32(i))
		filter.Add(e)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		binary.BigEndian.PutUint32(e, uint32(i))
		filter.Contains(e)
	}
}
