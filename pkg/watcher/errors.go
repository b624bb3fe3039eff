package watcher

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned when Start is called on a running watcher.
	ErrAlreadyStarted = errors.New("watcher already started")

	// ErrInvalidPath is returned when no path is configured.
	ErrInvalidPath = errors.New("invalid watch path")

	// ErrNilCallback is returned when Start is called without a callback.
	ErrNilCallback = errors.New("change callback is required")
)

// PollError reports a failed read cycle. The watcher keeps polling.
type PollError struct {
	Path string
	Err  error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("poll %s: %v", e.Path, e.Err)
}

func (e *PollError) Unwrap() error {
	return e.Err
}
