package task

import "errors"

var (
	ErrNoTasks = errors.New("task: no functions given")
	ErrPanic   = errors.New("task: function panicked")
)
