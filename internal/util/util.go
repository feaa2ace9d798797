// Package util holds small numeric and string helpers shared by the uniqstat packages.
package util

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const (
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

var (
	srcMu sync.Mutex
	src   = rand.NewSource(time.Now().UnixNano())
)

// CalculateFilterSize returns the number of bits a Bloom filter needs to hold _length_
// items at false positive rate _errorRate_: m = -n ln p / (ln 2)^2
func CalculateFilterSize(length uint, errorRate float64) uint {
	return uint(math.Ceil(-(float64(length) * math.Log(errorRate)) / (math.Ln2 * math.Ln2)))
}

// CalculateNumHashes returns the hash count minimising the false positive rate for a
// filter of _size_ bits holding _length_ items: k = (m/n) ln 2
func CalculateNumHashes(size, length uint) uint {
	if length == 0 {
		return 1
	}
	return uint(math.Ceil(float64(size) / float64(length) * math.Ln2))
}

// GenerateRandomString returns an alphabetic string of length n.
// It's safe for concurrent use.
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	srcMu.Lock()
	defer srcMu.Unlock()
	// A src.Int63() generates 63 random bits, enough for letterIdxMax characters!
	for i, cache, remain := n-1, src.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = src.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}
	return string(b)
}
