package hash

import (
	"strconv"
	"strings"
)

// FamilyName returns the name under which the Redis backed filters record _f_:
// "seeded" or "double:<seed>". ok is false for families defined outside this package.
func FamilyName(f Family) (name string, ok bool) {
	switch f := f.(type) {
	case Seeded:
		return "seeded", true
	case DoubleHashing:
		seed := f.Seed
		if seed == 0 {
			seed = DefaultDoubleHashingSeed
		}
		return "double:" + strconv.FormatUint(seed, 10), true
	default:
		return "", false
	}
}

// ParseFamily is the inverse of FamilyName. A bare "double" means the default seed.
func ParseFamily(name string) (Family, bool) {
	kind, seed, hasSeed := strings.Cut(name, ":")
	switch kind {
	case "seeded":
		return Seeded{}, !hasSeed
	case "double":
		if !hasSeed {
			return DoubleHashing{Seed: DefaultDoubleHashingSeed}, true
		}
		s, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, false
		}
		return DoubleHashing{Seed: s}, true
	default:
		return nil, false
	}
}

// HasherName returns the name under which the Redis backed counters record _h_.
// ok is false for hashers defined outside this package.
func HasherName(h Hasher) (name string, ok bool) {
	switch h.(type) {
	case Metro:
		return "metro", true
	case XXH3:
		return "xxh3", true
	case Murmur3:
		return "murmur3", true
	case Murmur3x32:
		return "murmur3x32", true
	default:
		return "", false
	}
}

// ParseHasher is the inverse of HasherName.
func ParseHasher(name string) (Hasher, bool) {
	switch name {
	case "metro":
		return Metro{}, true
	case "xxh3":
		return XXH3{}, true
	case "murmur3":
		return Murmur3{}, true
	case "murmur3x32":
		return Murmur3x32{}, true
	default:
		return nil, false
	}
}
