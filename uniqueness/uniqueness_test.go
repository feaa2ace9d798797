package uniqueness

import (
	"testing"

	"github.com/kwertop/uniqstat/filters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSet is an exact Membership that counts calls.
type recordingSet struct {
	items    map[string]bool
	adds     int
	contains int
}

func (r *recordingSet) Contains(data []byte) bool {
	r.contains++
	return r.items[string(data)]
}

func (r *recordingSet) Add(data []byte) {
	r.adds++
	r.items[string(data)] = true
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "unique", Unique.String())
	assert.Equal(t, "already used", AlreadyUsed.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestCheckPasswords(t *testing.T) {
	bloom, err := filters.NewBloomFilter(1000, 3)
	require.NoError(t, err)
	for _, p := range []string{"password123", "admin123", "qwerty123"} {
		bloom.AddString(p)
	}
	results := CheckPasswords(bloom, []string{"password123", "newpassword", "admin123", "guest", ""})
	assert.Equal(t, []Result{
		{"password123", AlreadyUsed},
		{"newpassword", Unique},
		{"admin123", AlreadyUsed},
		{"guest", Unique},
		{"", Invalid},
	}, results)
	assert.True(t, bloom.ContainsString("newpassword"), "unique passwords are added")
}

func TestInvalidNeverReachesFilter(t *testing.T) {
	set := &recordingSet{items: map[string]bool{}}
	assert.Equal(t, Invalid, Classify(set, ""))
	assert.Zero(t, set.adds)
	assert.Zero(t, set.contains)
}

func TestRepeatedWithinBatch(t *testing.T) {
	set := &recordingSet{items: map[string]bool{}}
	results := CheckPasswords(set, []string{"hunter2", "hunter2"})
	assert.Equal(t, Unique, results[0].Status)
	assert.Equal(t, AlreadyUsed, results[1].Status)
	assert.Equal(t, 1, set.adds)
}
