package vfs

import "errors"

var (
	// ErrNotFound is returned when a read or listing targets a missing path.
	ErrNotFound = errors.New("path not found")

	// ErrIO is returned when a write, directory creation or read fails for
	// any reason other than a missing path.
	ErrIO = errors.New("filesystem i/o failure")
)
