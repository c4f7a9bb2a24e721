package tablecache

import "errors"

var (
	ErrNoRunner     = errors.New("tablecache: a database runner or a custom loader is required")
	ErrEmptyTable   = errors.New("tablecache: table name is empty")
	ErrDuplicate    = errors.New("tablecache: table already registered")
	ErrKeyUndefined = errors.New("tablecache: table has no key function")
	ErrClosed       = errors.New("tablecache: factory is closed")
)
