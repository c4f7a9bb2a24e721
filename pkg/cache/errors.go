package cache

import "errors"

// ErrNotFound covers both missing and expired keys.
var ErrNotFound = errors.New("cache: not found")

var (
	ErrClosed         = errors.New("cache: use of closed cache")
	ErrMarshal        = errors.New("cache: encode value")
	ErrUnmarshal      = errors.New("cache: decode value")
	ErrUnknownBackend = errors.New("cache: unknown backend")
	ErrNoRedisClient  = errors.New("cache: redis backend needs a client")
	ErrLoadPanicked   = errors.New("cache: loader panicked")
)
