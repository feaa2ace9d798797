package count

// Item is anything that can be hashed as a byte sequence.
type Item interface {
	~string | ~[]byte
}

// ExactDistinct returns the exact number of distinct _items_ by remembering every one
// of them. It costs O(n) memory and exists to check estimates against.
func ExactDistinct[T Item](items []T) uint64 {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[string(item)] = struct{}{}
	}
	return uint64(len(seen))
}
