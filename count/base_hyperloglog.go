/*
Package count implements probabilistic counting of distinct items.

HyperLogLog estimates the number of distinct items in a stream with a fixed array of 2^p
registers. Each item is hashed once: the top p bits of the hash pick a register, and the
register keeps the largest rank (position of the leftmost set bit) seen among the remaining
bits. The estimate is a bias-corrected harmonic mean of 2^register, switching to linear
counting while many registers are still zero. Its standard error is about 1.04/sqrt(2^p).
Refer: http://algo.inria.fr/flajolet/Publications/FlFuGaMe07.pdf

The package provides an in-memory HyperLogLog and a Redis backed HyperLogLogRedis, plus
ExactDistinct, an exact but memory hungry count used to check the estimates.
*/
package count

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/kwertop/uniqstat"
	"github.com/kwertop/uniqstat/hash"
)

const (
	// MinPrecision and MaxPrecision bound the log2 of the number of registers.
	MinPrecision = 4
	MaxPrecision = 16

	// DefaultPrecision gives 1024 registers and about 3.25% standard error.
	DefaultPrecision = 10
)

var two32 = math.Pow(2, 32)

type options struct {
	hasher  hash.Hasher
	seed    uint64
	seedSet bool
}

// Option configures a HyperLogLog at construction.
type Option func(*options)

// WithHasher sets the hash function. Its Width must be at least 32 bits. hash.Metro is
// used when the option is absent or nil is passed.
func WithHasher(h hash.Hasher) Option {
	return func(o *options) {
		if h == nil {
			h = hash.Metro{}
		}
		o.hasher = h
	}
}

// WithSeed sets the hash seed. Sketches with different seeds give independent estimates
// of the same stream.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seedSet = true
	}
}

func collectOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// abstractHyperLogLog holds the parameters and the math shared by the in-memory and
// the Redis backed sketches.
type abstractHyperLogLog struct {
	precision    uint8
	numRegisters uint64
	alpha        float64
	hasher       hash.Hasher
	seed         uint64
}

func makeAbstractHyperLogLog(precision uint8, opts ...Option) (*abstractHyperLogLog, error) {
	return newAbstractHyperLogLog(precision, collectOptions(opts))
}

func newAbstractHyperLogLog(precision uint8, o options) (*abstractHyperLogLog, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return nil, fmt.Errorf("%w: hyperloglog precision %d not in [%d, %d]", uniqstat.ErrInvalidConfig, precision, MinPrecision, MaxPrecision)
	}
	if o.hasher == nil {
		o.hasher = hash.Metro{}
	}
	if w := o.hasher.Width(); w < 32 || w > 64 {
		return nil, fmt.Errorf("%w: hash width %d not in [32, 64]", uniqstat.ErrInvalidConfig, w)
	}
	numRegisters := uint64(1) << precision
	return &abstractHyperLogLog{
		precision:    precision,
		numRegisters: numRegisters,
		alpha:        getAlpha(numRegisters),
		hasher:       o.hasher,
		seed:         o.seed,
	}, nil
}

// Precision returns p, the log2 of the number of registers
func (h *abstractHyperLogLog) Precision() uint8 {
	return h.precision
}

// NumRegisters returns m = 2^p
func (h *abstractHyperLogLog) NumRegisters() uint64 {
	return h.numRegisters
}

// Accuracy returns the standard error of the estimate, 1.04/sqrt(m)
func (h *abstractHyperLogLog) Accuracy() float64 {
	return 1.04 / math.Sqrt(float64(h.numRegisters))
}

func getAlpha(m uint64) (result float64) {
	switch m {
	case 16:
		result = 0.673
	case 32:
		result = 0.697
	case 64:
		result = 0.709
	default:
		result = 0.7213 / (1.0 + 1.079/float64(m))
	}
	return result
}

// maxRank is the rank of a hash whose tail is all zeros
func (h *abstractHyperLogLog) maxRank() uint8 {
	return uint8(h.hasher.Width()) - h.precision + 1
}

// getRegisterIndexAndRank splits the hash of _data_ into the top p bits, which pick
// the register, and the tail, whose leftmost set bit gives the rank.
func (h *abstractHyperLogLog) getRegisterIndexAndRank(data []byte) (uint64, uint8) {
	width := h.hasher.Width()
	// left align so that the hash occupies the top _width_ bits
	x := h.hasher.Sum64(data, h.seed) << (64 - width)
	index := x >> (64 - uint(h.precision))
	tail := x << h.precision
	rank := uint8(bits.LeadingZeros64(tail)) + 1
	return index, min(rank, h.maxRank())
}

// getEstimation turns the register statistics into a cardinality estimate.
// _sum_ is Σ 2^-register and _zeros_ the number of registers still at zero.
func (h *abstractHyperLogLog) getEstimation(sum float64, zeros uint64) float64 {
	m := float64(h.numRegisters)
	estimation := h.alpha * m * m / sum
	if estimation <= 2.5*m && zeros > 0 {
		return m * math.Log(m/float64(zeros))
	}
	// a 32-bit hash starts colliding near 2^32 distinct items
	if h.hasher.Width() == 32 && estimation > two32/30 && estimation < two32 {
		return -two32 * math.Log(1-estimation/two32)
	}
	return estimation
}

func registerStats(registers []uint8) (sum float64, zeros uint64) {
	for _, r := range registers {
		sum += math.Ldexp(1, -int(r))
		if r == 0 {
			zeros++
		}
	}
	return sum, zeros
}
