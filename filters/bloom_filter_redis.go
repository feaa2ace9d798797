package filters

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/kwertop/uniqstat"
	"github.com/kwertop/uniqstat/bitset"
	"github.com/kwertop/uniqstat/hash"
	"github.com/redis/go-redis/v9"
)

// BloomFilterRedis is a Bloom filter whose bits live in Redis, so several processes
// can share one filter. The k bits of an item are written in one transaction.
// _metadataKey_ holds a Redis hash with the filter parameters and the bitset key.
type BloomFilterRedis struct {
	client      *redis.Client
	size        uint
	numHashes   uint
	family      hash.Family
	filter      *bitset.BitSetRedis
	metadataKey string
}

// NewBloomFilterRedis creates a Redis backed BloomFilter of _size_ bits using
// _numHashes_ hash functions. WithBitSet isn't accepted as the bits always live in Redis.
func NewBloomFilterRedis(ctx context.Context, client *redis.Client, size, numHashes uint, opts ...Option) (*BloomFilterRedis, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: bloom filter size must be positive", uniqstat.ErrInvalidConfig)
	}
	if numHashes == 0 {
		return nil, fmt.Errorf("%w: bloom filter needs at least one hash function", uniqstat.ErrInvalidConfig)
	}
	o := collectOptions(opts)
	if o.bits != nil {
		return nil, fmt.Errorf("%w: redis bloom filter can't use an in-memory bitset", uniqstat.ErrInvalidConfig)
	}
	family := o.familyOrDefault()
	familyName, ok := hash.FamilyName(family)
	if !ok {
		return nil, fmt.Errorf("%w: hash family %T can't be recorded in redis", uniqstat.ErrInvalidConfig, family)
	}
	filter, err := bitset.NewBitSetRedis(ctx, client, size, "")
	if err != nil {
		return nil, err
	}
	metadataKey := "uniqstat:bloom:" + uuid.NewString()
	metadata := map[string]interface{}{
		"size":      size,
		"numHashes": numHashes,
		"bitsetKey": filter.Key(),
		"family":    familyName,
	}
	if err := client.HSet(ctx, metadataKey, metadata).Err(); err != nil {
		return nil, fmt.Errorf("%w: error while creating bloom filter redis: %v", uniqstat.ErrBackend, err)
	}
	return &BloomFilterRedis{
		client:      client,
		size:        size,
		numHashes:   numHashes,
		family:      family,
		filter:      filter,
		metadataKey: metadataKey,
	}, nil
}

// NewBloomFilterRedisFromKey attaches to the filter described at _metadataKey_.
// The hash family is read from the metadata. Passing WithFamily with a different
// family fails with uniqstat.ErrInvalidConfig.
func NewBloomFilterRedisFromKey(ctx context.Context, client *redis.Client, metadataKey string, opts ...Option) (*BloomFilterRedis, error) {
	values, err := client.HGetAll(ctx, metadataKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: error while fetching hash from redis: %v", uniqstat.ErrBackend, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no bloom filter at key %s", uniqstat.ErrInvalidInput, metadataKey)
	}
	size, err1 := strconv.ParseUint(values["size"], 10, 64)
	numHashes, err2 := strconv.ParseUint(values["numHashes"], 10, 64)
	if err1 != nil || err2 != nil || size == 0 || numHashes == 0 {
		return nil, fmt.Errorf("%w: malformed bloom filter metadata at key %s", uniqstat.ErrInvalidInput, metadataKey)
	}
	family, ok := hash.ParseFamily(values["family"])
	if !ok {
		return nil, fmt.Errorf("%w: unknown hash family %q at key %s", uniqstat.ErrInvalidInput, values["family"], metadataKey)
	}
	if o := collectOptions(opts); o.family != nil {
		if name, _ := hash.FamilyName(o.family); name != values["family"] {
			return nil, fmt.Errorf("%w: filter at key %s uses hash family %s", uniqstat.ErrInvalidConfig, metadataKey, values["family"])
		}
	}
	filter, err := bitset.FromRedisKey(ctx, client, uint(size), values["bitsetKey"])
	if err != nil {
		return nil, err
	}
	return &BloomFilterRedis{
		client:      client,
		size:        uint(size),
		numHashes:   uint(numHashes),
		family:      family,
		filter:      filter,
		metadataKey: metadataKey,
	}, nil
}

// MetadataKey returns the Redis key used to store the metadata about the filter
func (bloomFilter *BloomFilterRedis) MetadataKey() string {
	return bloomFilter.metadataKey
}

// Size returns the number of bits of the bloom filter
func (bloomFilter *BloomFilterRedis) Size() uint {
	return bloomFilter.size
}

// NumHashes returns the number of hash functions used in the bloom filter
func (bloomFilter *BloomFilterRedis) NumHashes() uint {
	return bloomFilter.numHashes
}

// Add sets the k bits of _data_
func (bloomFilter *BloomFilterRedis) Add(ctx context.Context, data []byte) error {
	return bloomFilter.filter.SetMulti(ctx, bloomFilter.indexes(data))
}

// Contains reports whether all k bits of _data_ are set. Only backend failures
// produce an error.
func (bloomFilter *BloomFilterRedis) Contains(ctx context.Context, data []byte) (bool, error) {
	result, err := bloomFilter.filter.TestMulti(ctx, bloomFilter.indexes(data))
	if err != nil {
		return false, err
	}
	for _, ok := range result {
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// BitCount returns the number of set bits
func (bloomFilter *BloomFilterRedis) BitCount(ctx context.Context) (uint, error) {
	return bloomFilter.filter.Count(ctx)
}

// Delete removes the bits and the metadata from Redis
func (bloomFilter *BloomFilterRedis) Delete(ctx context.Context) error {
	if err := bloomFilter.filter.Delete(ctx); err != nil {
		return err
	}
	if err := bloomFilter.client.Del(ctx, bloomFilter.metadataKey).Err(); err != nil {
		return fmt.Errorf("%w: %v", uniqstat.ErrBackend, err)
	}
	return nil
}

func (bloomFilter *BloomFilterRedis) indexes(data []byte) []uint {
	return bloomFilter.family.Indexes(data, bloomFilter.numHashes, bloomFilter.size, make([]uint, 0, bloomFilter.numHashes))
}
