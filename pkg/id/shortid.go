package id

import (
	"crypto/rand"
	"time"
)

const (
	shortIDLength = 16
	shortIDTime   = 6
)

// NewShortID returns a 16-character ID: 6 characters of timestamp and 10 of
// randomness.
func NewShortID() string {
	var (
		out     [shortIDLength]byte
		entropy [6]byte
	)
	encodeTime(out[:shortIDTime], uint64(time.Now().UnixMilli())&0x3FFFFFFF)
	_, _ = rand.Read(entropy[:])
	encodeBits(out[shortIDTime:], entropy[:])
	return string(out[:])
}
