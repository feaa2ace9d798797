package count

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/kwertop/uniqstat"
	"github.com/kwertop/uniqstat/hash"
	"github.com/redis/go-redis/v9"
)

// registers are pushed in chunks to keep command sizes bounded
const initChunkSize = 1024

var updateRegisterScript = redis.NewScript(`
	local key = KEYS[1]
	local index = tonumber(ARGV[1])
	local rank = tonumber(ARGV[2])
	local current = tonumber(redis.call('LINDEX', key, index))
	if current == nil then
		return redis.error_reply('uniqstat: hyperloglog registers missing')
	end
	if rank > current then
		redis.call('LSET', key, index, rank)
		return 1
	end
	return 0
`)

// HyperLogLogRedis is the Redis backed HyperLogLog. The registers are a Redis list at
// _key_ and each update is an atomic compare-and-raise done in Lua, so any number of
// processes may update the same sketch.
// _metadataKey_ is a Redis hash holding the precision, the seed, the hasher name and
// the registers key.
type HyperLogLogRedis struct {
	abstractHyperLogLog
	client      *redis.Client
	key         string
	metadataKey string
}

// NewHyperLogLogRedis creates a HyperLogLogRedis with 2^precision registers
func NewHyperLogLogRedis(ctx context.Context, client *redis.Client, precision uint8, opts ...Option) (*HyperLogLogRedis, error) {
	abstractLog, err := makeAbstractHyperLogLog(precision, opts...)
	if err != nil {
		return nil, err
	}
	hasherName, ok := hash.HasherName(abstractLog.hasher)
	if !ok {
		return nil, fmt.Errorf("%w: hasher %T can't be recorded in redis", uniqstat.ErrInvalidConfig, abstractLog.hasher)
	}
	id := uuid.NewString()
	h := &HyperLogLogRedis{
		abstractHyperLogLog: *abstractLog,
		client:              client,
		key:                 "uniqstat:hll:" + id + ":registers",
		metadataKey:         "uniqstat:hll:" + id,
	}
	if err := h.initRegisters(ctx); err != nil {
		return nil, err
	}
	metadata := map[string]interface{}{
		"precision": h.precision,
		"seed":      strconv.FormatUint(h.seed, 10),
		"hasher":    hasherName,
		"key":       h.key,
	}
	if err := client.HSet(ctx, h.metadataKey, metadata).Err(); err != nil {
		return nil, fmt.Errorf("%w: error creating hyperloglog redis: %v", uniqstat.ErrBackend, err)
	}
	return h, nil
}

// NewHyperLogLogRedisFromKey is used to attach to the sketch described at _metadataKey_.
// The hasher and the seed are read from the metadata. Passing WithHasher or WithSeed
// with different values fails with uniqstat.ErrInvalidConfig.
func NewHyperLogLogRedisFromKey(ctx context.Context, client *redis.Client, metadataKey string, opts ...Option) (*HyperLogLogRedis, error) {
	values, err := client.HGetAll(ctx, metadataKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: error creating hyperloglog from redis key: %v", uniqstat.ErrBackend, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no hyperloglog at key %s", uniqstat.ErrInvalidInput, metadataKey)
	}
	precision, err1 := strconv.ParseUint(values["precision"], 10, 8)
	seed, err2 := strconv.ParseUint(values["seed"], 10, 64)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("%w: malformed hyperloglog metadata at key %s", uniqstat.ErrInvalidInput, metadataKey)
	}
	hasher, ok := hash.ParseHasher(values["hasher"])
	if !ok {
		return nil, fmt.Errorf("%w: unknown hasher %q at key %s", uniqstat.ErrInvalidInput, values["hasher"], metadataKey)
	}
	o := collectOptions(opts)
	if o.hasher != nil {
		if name, _ := hash.HasherName(o.hasher); name != values["hasher"] {
			return nil, fmt.Errorf("%w: sketch at key %s uses hasher %s", uniqstat.ErrInvalidConfig, metadataKey, values["hasher"])
		}
	}
	if o.seedSet && o.seed != seed {
		return nil, fmt.Errorf("%w: sketch at key %s uses seed %d", uniqstat.ErrInvalidConfig, metadataKey, seed)
	}
	abstractLog, err := newAbstractHyperLogLog(uint8(precision), options{hasher: hasher, seed: seed, seedSet: true})
	if err != nil {
		return nil, err
	}
	return &HyperLogLogRedis{
		abstractHyperLogLog: *abstractLog,
		client:              client,
		key:                 values["key"],
		metadataKey:         metadataKey,
	}, nil
}

// MetadataKey returns the metadataKey
func (h *HyperLogLogRedis) MetadataKey() string {
	return h.metadataKey
}

// Update records _data_
func (h *HyperLogLogRedis) Update(ctx context.Context, data []byte) error {
	index, rank := h.getRegisterIndexAndRank(data)
	err := updateRegisterScript.Run(ctx, h.client, []string{h.key}, index, rank).Err()
	if err != nil {
		return fmt.Errorf("%w: error while updating hyperloglog registers in redis: %v", uniqstat.ErrBackend, err)
	}
	return nil
}

// Estimate returns the estimated number of distinct items recorded so far
func (h *HyperLogLogRedis) Estimate(ctx context.Context) (float64, error) {
	registers, err := h.Registers(ctx)
	if err != nil {
		return 0, err
	}
	sum, zeros := registerStats(registers)
	return h.getEstimation(sum, zeros), nil
}

// Count returns Estimate rounded to the nearest integer
func (h *HyperLogLogRedis) Count(ctx context.Context) (uint64, error) {
	estimate, err := h.Estimate(ctx)
	if err != nil {
		return 0, err
	}
	return uint64(math.Round(estimate)), nil
}

// Registers fetches the registers from Redis
func (h *HyperLogLogRedis) Registers(ctx context.Context) ([]uint8, error) {
	result, err := h.client.LRange(ctx, h.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: error fetching registers from redis: %v", uniqstat.ErrBackend, err)
	}
	if uint64(len(result)) != h.numRegisters {
		return nil, fmt.Errorf("%w: expected %d registers at key %s, found %d", uniqstat.ErrInvalidInput, h.numRegisters, h.key, len(result))
	}
	registers := make([]uint8, h.numRegisters)
	for i := range registers {
		val, err := strconv.ParseUint(result[i], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: register %d at key %s: %v", uniqstat.ErrInvalidInput, i, h.key, err)
		}
		registers[i] = uint8(val)
	}
	return registers, nil
}

// Reset sets every register back to zero
func (h *HyperLogLogRedis) Reset(ctx context.Context) error {
	return h.initRegisters(ctx)
}

// Delete removes the registers and the metadata from Redis
func (h *HyperLogLogRedis) Delete(ctx context.Context) error {
	if err := h.client.Del(ctx, h.key, h.metadataKey).Err(); err != nil {
		return fmt.Errorf("%w: %v", uniqstat.ErrBackend, err)
	}
	return nil
}

func (h *HyperLogLogRedis) initRegisters(ctx context.Context) error {
	pipe := h.client.TxPipeline()
	pipe.Del(ctx, h.key)
	for pushed := uint64(0); pushed < h.numRegisters; pushed += initChunkSize {
		n := min(initChunkSize, h.numRegisters-pushed)
		zeros := make([]interface{}, n)
		for i := range zeros {
			zeros[i] = 0
		}
		pipe.RPush(ctx, h.key, zeros...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: error while initializing hyperloglog registers in redis: %v", uniqstat.ErrBackend, err)
	}
	return nil
}
