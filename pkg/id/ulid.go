package id

import (
	"crypto/rand"
	"strings"
	"time"
)

// Crockford's base32 alphabet, without I, L, O and U.
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const (
	ulidLength = 26
	ulidTime   = 10
)

// NewULID returns a new ULID for the current time.
func NewULID() string {
	return newULID(time.Now())
}

func newULID(t time.Time) string {
	var (
		out     [ulidLength]byte
		entropy [10]byte
	)
	encodeTime(out[:ulidTime], uint64(t.UnixMilli()))
	_, _ = rand.Read(entropy[:])
	encodeBits(out[ulidTime:], entropy[:])
	return string(out[:])
}

// ULIDTime returns the creation time encoded in a ULID. Lower-case input is
// accepted.
func ULIDTime(s string) (time.Time, error) {
	if len(s) != ulidLength {
		return time.Time{}, ErrInvalidULID
	}
	s = strings.ToUpper(s)
	// The first character carries only 3 bits of a 48-bit timestamp.
	if s[0] > '7' {
		return time.Time{}, ErrInvalidULID
	}

	var ms uint64
	for i := range ulidLength {
		v := strings.IndexByte(crockfordBase32, s[i])
		if v < 0 {
			return time.Time{}, ErrInvalidULID
		}
		if i < ulidTime {
			ms = ms<<5 | uint64(v)
		}
	}
	return time.UnixMilli(int64(ms)), nil
}

// encodeTime writes the low 5*len(dst) bits of v, most significant first.
func encodeTime(dst []byte, v uint64) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = crockfordBase32[v&0x1F]
		v >>= 5
	}
}

// encodeBits writes src as base32 into dst, padding the last character
// with zero bits.
func encodeBits(dst, src []byte) {
	var (
		acc  uint32
		bits uint
		i    int
	)
	for _, b := range src {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			dst[i] = crockfordBase32[(acc>>bits)&0x1F]
			i++
		}
	}
	if bits > 0 && i < len(dst) {
		dst[i] = crockfordBase32[(acc<<(5-bits))&0x1F]
	}
}
