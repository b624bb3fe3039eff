// Package counters publishes remote counters to a companion file.
//
// A Fetcher retrieves a flat mapping of identifier to count from a remote
// service; a Publisher writes that mapping as JSON next to the command
// channel, where the hosted game reads it. Counters are an external
// collaborator of the command channel and never block it.
package counters

import (
	"context"
	"time"

	"github.com/jetrotal/YN-HUB/pkg/clock"
)

// DefaultOutputPath is the companion file read by the hosted game.
const DefaultOutputPath = "/easyrpg/texts/counters.json"

// Fetcher retrieves identifier to count mappings.
type Fetcher interface {
	Fetch(ctx context.Context) (map[string]int, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (map[string]int, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) (map[string]int, error) {
	return f(ctx)
}

// Writer stores the published file.
type Writer interface {
	WriteFile(path, content string) error
}

// Config contains publisher configuration.
type Config struct {
	// OutputPath is the companion file.
	// Default: DefaultOutputPath.
	OutputPath string

	// Interval is the delay between publishes in Run.
	// Default: 5m.
	Interval time.Duration

	// Clock schedules Run.
	// Default: wall clock.
	Clock clock.Clock
}
