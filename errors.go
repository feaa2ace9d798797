package uniqstat

import "errors"

var (
	// ErrInvalidConfig is returned by constructors when a size, hash count or precision
	// is outside its valid range. No state is created when it is returned.
	ErrInvalidConfig = errors.New("uniqstat: invalid configuration")

	// ErrInvalidInput is returned when an external data source is missing, unreadable
	// or holds no usable items.
	ErrInvalidInput = errors.New("uniqstat: invalid input")

	// ErrEncoding is returned when text was expected but the bytes are not valid UTF-8.
	ErrEncoding = errors.New("uniqstat: invalid encoding")

	// ErrBackend is returned when a Redis backed structure can't reach or update Redis.
	ErrBackend = errors.New("uniqstat: backend error")
)
