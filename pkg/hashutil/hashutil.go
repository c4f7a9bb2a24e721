// Package hashutil provides hex-encoded cryptographic digests, HMAC signing
// with constant-time comparison, and xxHash for non-cryptographic keys such
// as cache shards and ETags.
package hashutil

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// SHA256Hex returns the lowercase hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SHA512Hex returns the lowercase hex SHA-512 digest of data.
func SHA512Hex(data []byte) string {
	sum := sha512.Sum512(data)
	return hex.EncodeToString(sum[:])
}

// HMACSHA256 returns the hex HMAC-SHA256 of data under key.
func HMACSHA256(key, data []byte) string {
	m := hmac.New(sha256.New, key)
	m.Write(data)
	return hex.EncodeToString(m.Sum(nil))
}

// VerifyHMACSHA256 checks a hex signature produced by HMACSHA256.
func VerifyHMACSHA256(key, data []byte, signature string) bool {
	return Equal(HMACSHA256(key, data), signature)
}

// Equal compares a and b in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// XXHash64 returns the 64-bit xxHash of data.
func XXHash64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// XXHashString returns the xxHash of s as 16 lowercase hex characters.
func XXHashString(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}
