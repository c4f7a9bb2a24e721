// Package id generates time-sortable string identifiers.
//
// NewULID returns a 26-character ULID (48-bit millisecond timestamp plus 80
// random bits) in Crockford base32. ULIDTime recovers the timestamp.
// NewShortID returns a 16-character variant for URLs and human-facing
// references; it keeps 30 bits of timestamp, so ordering wraps roughly every
// 12 days.
package id
