package filters

import (
	"math"

	"github.com/kwertop/uniqstat/internal/util"
)

// OptimalSize returns the number of bits needed to hold _numItems_ at false
// positive rate _errorRate_.
func OptimalSize(numItems uint, errorRate float64) uint {
	return max(util.CalculateFilterSize(numItems, errorRate), 1)
}

// OptimalNumHashes returns k = (m/n) ln 2, the hash count minimising the false
// positive rate of a _size_ bit filter holding _numItems_ items.
func OptimalNumHashes(size, numItems uint) uint {
	return max(util.CalculateNumHashes(size, numItems), 1)
}

// ExpectedFalsePositiveRate returns (1 - e^(-kn/m))^k
func ExpectedFalsePositiveRate(size, numHashes, numItems uint) float64 {
	k := float64(numHashes)
	return math.Pow(1-math.Exp(-k*float64(numItems)/float64(size)), k)
}
