// Package guid wraps github.com/google/uuid with time-ordered v7 generation
// and a compact 22-character base64url form for URLs.
package guid

import (
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
)

var ErrInvalid = errors.New("guid: invalid value")

// Nil is the all-zero UUID.
var Nil = uuid.Nil

// New returns a version 7 UUID. Values sort by creation time, which keeps
// B-tree index inserts local.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// IsEmpty reports whether u is the nil UUID.
func IsEmpty(u uuid.UUID) bool {
	return u == uuid.Nil
}

// Parse decodes the canonical or URN form of a UUID.
func Parse(s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalid, err)
	}
	return u, nil
}

// MustParse is Parse that panics on error.
func MustParse(s string) uuid.UUID {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// ParseOrNil returns the nil UUID when s does not parse.
func ParseOrNil(s string) uuid.UUID {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return u
}

// ToShort encodes u as 22 characters of unpadded base64url.
func ToShort(u uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString(u[:])
}

// FromShort decodes the output of ToShort.
func FromShort(s string) (uuid.UUID, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalid, err)
	}
	u, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalid, err)
	}
	return u, nil
}
