package id

import "errors"

var ErrInvalidULID = errors.New("id: invalid ULID")
