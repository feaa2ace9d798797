package count

import (
	"math"
	"reflect"
	"slices"

	"github.com/kwertop/uniqstat/hash"
)

// HyperLogLog is the in-memory cardinality estimator. Registers only ever grow, so the
// final state depends on the set of items seen and not on their order or repetition.
// It isn't safe for concurrent use.
type HyperLogLog struct {
	abstractHyperLogLog
	registers []uint8
}

// NewHyperLogLog creates a HyperLogLog with 2^precision registers.
// _precision_ must be in [4, 16].
func NewHyperLogLog(precision uint8, opts ...Option) (*HyperLogLog, error) {
	abstractLog, err := makeAbstractHyperLogLog(precision, opts...)
	if err != nil {
		return nil, err
	}
	return &HyperLogLog{*abstractLog, make([]uint8, abstractLog.numRegisters)}, nil
}

// Update records _data_
func (h *HyperLogLog) Update(data []byte) {
	index, rank := h.getRegisterIndexAndRank(data)
	if rank > h.registers[index] {
		h.registers[index] = rank
	}
}

// UpdateString records _data_
func (h *HyperLogLog) UpdateString(data string) {
	h.Update([]byte(data))
}

// Estimate returns the estimated number of distinct items recorded so far.
// It doesn't modify the sketch.
func (h *HyperLogLog) Estimate() float64 {
	sum, zeros := registerStats(h.registers)
	return h.getEstimation(sum, zeros)
}

// Count returns Estimate rounded to the nearest integer
func (h *HyperLogLog) Count() uint64 {
	return uint64(math.Round(h.Estimate()))
}

// Reset sets every register back to zero
func (h *HyperLogLog) Reset() {
	clear(h.registers)
}

// Registers returns a copy of the registers
func (h *HyperLogLog) Registers() []uint8 {
	return slices.Clone(h.registers)
}

// Equals checks if two sketches have the same precision, hasher, seed and registers.
// Registers filled through different hashes aren't comparable, so such sketches are
// never equal.
func (h *HyperLogLog) Equals(g *HyperLogLog) bool {
	return h.numRegisters == g.numRegisters &&
		h.seed == g.seed &&
		sameHasher(h.hasher, g.hasher) &&
		slices.Equal(h.registers, g.registers)
}

func sameHasher(a, b hash.Hasher) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b) && a.Width() == b.Width()
}
