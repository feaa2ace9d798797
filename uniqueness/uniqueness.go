// Package uniqueness classifies candidate values, such as new passwords, against a
// membership filter of values already in use.
package uniqueness

// Status is the outcome of checking one candidate.
type Status int

const (
	// Unique means the filter had definitely never seen the candidate.
	Unique Status = iota
	// AlreadyUsed means the filter has probably seen the candidate. Bloom filters
	// can report this for a value never added, at their false positive rate.
	AlreadyUsed
	// Invalid means the candidate was rejected before reaching the filter.
	Invalid
)

func (s Status) String() string {
	switch s {
	case Unique:
		return "unique"
	case AlreadyUsed:
		return "already used"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Membership is the filter the classification runs against. *filters.BloomFilter
// satisfies it.
type Membership interface {
	Contains(data []byte) bool
	Add(data []byte)
}

// Result pairs a candidate with its Status.
type Result struct {
	Value  string
	Status Status
}

// Classify checks _value_ against _m_. Empty values are Invalid and never touch the
// filter. A value the filter doesn't contain is Unique and is then added, so asking
// again reports AlreadyUsed.
func Classify(m Membership, value string) Status {
	if value == "" {
		return Invalid
	}
	data := []byte(value)
	if m.Contains(data) {
		return AlreadyUsed
	}
	m.Add(data)
	return Unique
}

// CheckPasswords classifies every password in order. A password repeated within
// _passwords_ is Unique the first time and AlreadyUsed afterwards.
func CheckPasswords(m Membership, passwords []string) []Result {
	results := make([]Result, 0, len(passwords))
	for _, p := range passwords {
		results = append(results, Result{Value: p, Status: Classify(m, p)})
	}
	return results
}
