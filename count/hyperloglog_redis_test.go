package count

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/kwertop/uniqstat"
	"github.com/kwertop/uniqstat/hash"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initMockRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	connOptions, err := uniqstat.ParseRedisURI("redis://" + mr.Addr())
	require.NoError(t, err)
	client := uniqstat.NewRedisClient(*connOptions)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// The redis sketch must end up with exactly the registers of the in-memory one.
func TestHyperLogLogRedisMatchesMem(t *testing.T) {
	ctx := context.Background()
	client := initMockRedis(t)
	r, err := NewHyperLogLogRedis(ctx, client, 7, WithSeed(11))
	require.NoError(t, err)
	h, _ := NewHyperLogLog(7, WithSeed(11))
	for i := 0; i < 1000; i++ {
		data := []byte(strconv.Itoa(i % 300))
		require.NoError(t, r.Update(ctx, data))
		h.Update(data)
	}
	registers, err := r.Registers(ctx)
	require.NoError(t, err)
	assert.Equal(t, h.Registers(), registers)

	estimate, err := r.Estimate(ctx)
	require.NoError(t, err)
	assert.Equal(t, h.Estimate(), estimate)
	count, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, h.Count(), count)
}

func TestHyperLogLogRedisLargePrecision(t *testing.T) {
	ctx := context.Background()
	client := initMockRedis(t)
	r, err := NewHyperLogLogRedis(ctx, client, 12)
	require.NoError(t, err)
	registers, err := r.Registers(ctx)
	require.NoError(t, err)
	assert.Len(t, registers, 4096)
	estimate, err := r.Estimate(ctx)
	require.NoError(t, err)
	assert.Zero(t, estimate)
}

func TestHyperLogLogRedisFromKey(t *testing.T) {
	ctx := context.Background()
	client := initMockRedis(t)
	r, err := NewHyperLogLogRedis(ctx, client, 6, WithHasher(hash.XXH3{}), WithSeed(99))
	require.NoError(t, err)
	require.NoError(t, r.Update(ctx, []byte("10.0.0.1")))

	attached, err := NewHyperLogLogRedisFromKey(ctx, client, r.MetadataKey(), WithHasher(hash.XXH3{}))
	require.NoError(t, err)
	assert.Equal(t, uint8(6), attached.Precision())
	require.NoError(t, attached.Update(ctx, []byte("10.0.0.2")))

	h, _ := NewHyperLogLog(6, WithHasher(hash.XXH3{}), WithSeed(99))
	h.UpdateString("10.0.0.1")
	h.UpdateString("10.0.0.2")
	registers, err := r.Registers(ctx)
	require.NoError(t, err)
	assert.Equal(t, h.Registers(), registers)

	require.NoError(t, r.Delete(ctx))
	_, err = NewHyperLogLogRedisFromKey(ctx, client, r.MetadataKey())
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidInput))
}

// A reattached sketch must keep hashing the way its creator did.
func TestHyperLogLogRedisFromKeyKeepsHasher(t *testing.T) {
	ctx := context.Background()
	client := initMockRedis(t)
	r, err := NewHyperLogLogRedis(ctx, client, 6, WithHasher(hash.Murmur3x32{}), WithSeed(5))
	require.NoError(t, err)

	attached, err := NewHyperLogLogRedisFromKey(ctx, client, r.MetadataKey())
	require.NoError(t, err)
	h, _ := NewHyperLogLog(6, WithHasher(hash.Murmur3x32{}), WithSeed(5))
	for i := 0; i < 200; i++ {
		data := []byte(strconv.Itoa(i))
		require.NoError(t, attached.Update(ctx, data))
		h.Update(data)
	}
	registers, err := r.Registers(ctx)
	require.NoError(t, err)
	assert.Equal(t, h.Registers(), registers)
	for _, reg := range registers {
		assert.LessOrEqual(t, reg, uint8(32-6+1))
	}

	_, err = NewHyperLogLogRedisFromKey(ctx, client, r.MetadataKey(), WithHasher(hash.Metro{}))
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidConfig))
	_, err = NewHyperLogLogRedisFromKey(ctx, client, r.MetadataKey(), WithSeed(6))
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidConfig))
	_, err = NewHyperLogLogRedisFromKey(ctx, client, r.MetadataKey(), WithHasher(hash.Murmur3x32{}), WithSeed(5))
	assert.NoError(t, err)
}

type customHasher struct{}

func (customHasher) Sum64(data []byte, seed uint64) uint64 { return hash.Metro{}.Sum64(data, seed) }
func (customHasher) Width() uint                           { return 64 }

func TestHyperLogLogRedisRejectsUnrecordableHasher(t *testing.T) {
	client := initMockRedis(t)
	_, err := NewHyperLogLogRedis(context.Background(), client, 6, WithHasher(customHasher{}))
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidConfig))
}

func TestHyperLogLogRedisReset(t *testing.T) {
	ctx := context.Background()
	client := initMockRedis(t)
	r, err := NewHyperLogLogRedis(ctx, client, 4)
	require.NoError(t, err)
	require.NoError(t, r.Update(ctx, []byte("foo")))
	estimate, _ := r.Estimate(ctx)
	require.NotZero(t, estimate)
	require.NoError(t, r.Reset(ctx))
	estimate, err = r.Estimate(ctx)
	require.NoError(t, err)
	assert.Zero(t, estimate)
}

func TestHyperLogLogRedisRejectsBadPrecision(t *testing.T) {
	client := initMockRedis(t)
	_, err := NewHyperLogLogRedis(context.Background(), client, 17)
	assert.True(t, errors.Is(err, uniqstat.ErrInvalidConfig))
}
