package journal

import "errors"

var (
	// ErrClosed is returned when using a closed journal.
	ErrClosed = errors.New("journal is closed")

	// ErrNoPath is returned when Open is called without a database path.
	ErrNoPath = errors.New("journal path is required")
)
