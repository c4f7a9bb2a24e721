package cookie

import "errors"

var (
	ErrNotFound      = errors.New("cookie: not found")
	ErrNoSecret      = errors.New("cookie: secret required")
	ErrBadSecret     = errors.New("cookie: secret must be 32+ bytes")
	ErrBadSig        = errors.New("cookie: invalid signature")
	ErrDecrypt       = errors.New("cookie: decryption failed")
	ErrUnknownPolicy = errors.New("cookie: unknown SameSite policy")
)
