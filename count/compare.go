package count

import (
	"math"
	"time"
)

// Comparison records an exact distinct count next to a HyperLogLog estimate of the
// same items, with the time each took.
type Comparison struct {
	Exact           uint64
	Estimate        float64
	ExactElapsed    time.Duration
	EstimateElapsed time.Duration
}

// RelativeError returns (Estimate - Exact) / Exact, or 0 when there are no items.
func (c Comparison) RelativeError() float64 {
	if c.Exact == 0 {
		return 0
	}
	return (c.Estimate - float64(c.Exact)) / float64(c.Exact)
}

// WithinTolerance reports whether |RelativeError| is at most _tolerance_
func (c Comparison) WithinTolerance(tolerance float64) bool {
	return math.Abs(c.RelativeError()) <= tolerance
}

// Compare counts the distinct _items_ exactly and with a HyperLogLog of the given
// _precision_, timing both.
func Compare[T Item](items []T, precision uint8, opts ...Option) (Comparison, error) {
	h, err := NewHyperLogLog(precision, opts...)
	if err != nil {
		return Comparison{}, err
	}

	start := time.Now()
	exact := ExactDistinct(items)
	exactElapsed := time.Since(start)

	start = time.Now()
	for _, item := range items {
		h.Update([]byte(item))
	}
	estimate := h.Estimate()
	estimateElapsed := time.Since(start)

	return Comparison{
		Exact:           exact,
		Estimate:        estimate,
		ExactElapsed:    exactElapsed,
		EstimateElapsed: estimateElapsed,
	}, nil
}
