package dispatcher

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("dispatcher already started")

	// ErrInvalidLocation is matched by every ValidationError.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrPanic wraps a panic recovered while handling a command.
	ErrPanic = errors.New("panic while handling command")
)

// ValidationError reports a malformed gotoURL payload.
type ValidationError struct {
	Location string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid location %q: %s", e.Location, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidLocation
}
