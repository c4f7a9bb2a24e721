package logger

import "errors"

var (
	ErrUnknownLevel  = errors.New("logger: unknown level")
	ErrUnknownFormat = errors.New("logger: unknown format")
	ErrSentryFlush   = errors.New("logger: sentry events not delivered before deadline")
)
