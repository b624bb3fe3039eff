package counters

import (
	"errors"
	"fmt"
)

var (
	// ErrNoURL is returned when the fetcher has no endpoint.
	ErrNoURL = errors.New("counters url not configured")

	// ErrMalformed is returned when the response is not a JSON object.
	ErrMalformed = errors.New("malformed counters response")
)

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("counters request to %s returned status %d", e.URL, e.StatusCode)
}
