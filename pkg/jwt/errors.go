package jwt

import "errors"

var (
	ErrMissingKey           = errors.New("jwt: signing key is required")
	ErrWeakKey              = errors.New("jwt: HMAC signing key must be at least 32 bytes")
	ErrUnsupportedAlg       = errors.New("jwt: unsupported signing algorithm")
	ErrInvalidKey           = errors.New("jwt: invalid key material")
	ErrInvalidToken         = errors.New("jwt: invalid token")
	ErrExpiredToken         = errors.New("jwt: token expired")
	ErrTokenNotYetValid     = errors.New("jwt: token not valid yet")
	ErrInvalidSignature     = errors.New("jwt: invalid signature")
	ErrInvalidIssuer        = errors.New("jwt: invalid issuer")
	ErrInvalidAudience      = errors.New("jwt: invalid audience")
	ErrMissingExpiration    = errors.New("jwt: token has no expiration")
	ErrFailedToSignToken    = errors.New("jwt: failed to sign token")
	ErrFailedToEncodeClaims = errors.New("jwt: failed to encode claims")
)
