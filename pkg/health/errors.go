package health

import "errors"

var (
	ErrCheckTimeout  = errors.New("health: check timed out")
	ErrCheckPanicked = errors.New("health: check panicked")
)
