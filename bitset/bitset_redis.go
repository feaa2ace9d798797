package bitset

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kwertop/uniqstat"
	"github.com/redis/go-redis/v9"
)

// BitSetRedis keeps the bits in a Redis string at _key_.
// Bitsets or Bitmaps are implemented in Redis using string.
// For more details, please refer https://redis.io/docs/data-types/bitmaps/
type BitSetRedis struct {
	client *redis.Client
	size   uint
	key    string
}

// NewBitSetRedis creates a BitSetRedis of _size_ bits at _key_. A random key is
// generated when _key_ is blank. The backing string is allocated up front so that
// Count and Len agree from the start.
func NewBitSetRedis(ctx context.Context, client *redis.Client, size uint, key string) (*BitSetRedis, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: bitset size must be positive", uniqstat.ErrInvalidConfig)
	}
	if key == "" {
		key = "uniqstat:bits:" + uuid.NewString()
	}
	if err := client.SetBit(ctx, key, int64(size-1), 0).Err(); err != nil {
		return nil, fmt.Errorf("%w: error allocating bitset at key %s: %v", uniqstat.ErrBackend, key, err)
	}
	return &BitSetRedis{client, size, key}, nil
}

// FromRedisKey attaches to an existing bitset of _size_ bits saved at _key_
func FromRedisKey(ctx context.Context, client *redis.Client, size uint, key string) (*BitSetRedis, error) {
	n, err := client.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", uniqstat.ErrBackend, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: no bitset at key %s", uniqstat.ErrInvalidInput, key)
	}
	return &BitSetRedis{client, size, key}, nil
}

// Key gives the key at which the bitset is saved in redis
func (bitSet *BitSetRedis) Key() string {
	return bitSet.key
}

// Len returns the number of bits in the bitset
func (bitSet *BitSetRedis) Len() uint {
	return bitSet.size
}

// Test checks if the bit at index _index_ is set
func (bitSet *BitSetRedis) Test(ctx context.Context, index uint) (bool, error) {
	val, err := bitSet.client.GetBit(ctx, bitSet.key, int64(index)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", uniqstat.ErrBackend, err)
	}
	return val != 0, nil
}

// TestMulti checks the bits at _indexes_ in a single round trip
func (bitSet *BitSetRedis) TestMulti(ctx context.Context, indexes []uint) ([]bool, error) {
	if len(indexes) == 0 {
		return nil, nil
	}
	pipe := bitSet.client.Pipeline()
	values := make([]*redis.IntCmd, len(indexes))
	for i := range indexes {
		values[i] = pipe.GetBit(ctx, bitSet.key, int64(indexes[i]))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", uniqstat.ErrBackend, err)
	}
	result := make([]bool, len(values))
	for i := range values {
		result[i] = values[i].Val() != 0
	}
	return result, nil
}

// Set sets the bit at index specified by _index_
func (bitSet *BitSetRedis) Set(ctx context.Context, index uint) error {
	if err := bitSet.client.SetBit(ctx, bitSet.key, int64(index), 1).Err(); err != nil {
		return fmt.Errorf("%w: %v", uniqstat.ErrBackend, err)
	}
	return nil
}

// SetMulti sets the bits at _indexes_ in a single MULTI/EXEC transaction, so
// concurrent readers never observe only part of them.
func (bitSet *BitSetRedis) SetMulti(ctx context.Context, indexes []uint) error {
	if len(indexes) == 0 {
		return nil
	}
	pipe := bitSet.client.TxPipeline()
	for i := range indexes {
		pipe.SetBit(ctx, bitSet.key, int64(indexes[i]), 1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", uniqstat.ErrBackend, err)
	}
	return nil
}

// Count returns the total number of set bits in the bitset saved in redis
func (bitSet *BitSetRedis) Count(ctx context.Context) (uint, error) {
	val, err := bitSet.client.BitCount(ctx, bitSet.key, &redis.BitCount{Start: 0, End: -1}).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", uniqstat.ErrBackend, err)
	}
	return uint(val), nil
}

// Delete removes the bitset from redis
func (bitSet *BitSetRedis) Delete(ctx context.Context) error {
	if err := bitSet.client.Del(ctx, bitSet.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", uniqstat.ErrBackend, err)
	}
	return nil
}
