// Package watcher polls a single channel file and reports content changes.
//
// A Watcher reads its file once immediately after Start and then once per
// interval. The first successful read seeds the baseline without invoking
// the callback; every later read that differs from the baseline (exact
// string comparison) replaces it and invokes the callback once with the new
// content. Read failures are reported on Errors() and never stop the loop.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    Path:     "/easyrpg/texts/current_action.txt",
//	    Interval: time.Second,
//	}, adapter, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
//	err = w.Start(ctx, func(content string) {
//	    fmt.Printf("channel now holds %q\n", content)
//	})
package watcher

import (
	"time"

	"github.com/jetrotal/YN-HUB/pkg/clock"
	"github.com/jetrotal/YN-HUB/pkg/metrics"
)

// FileReader reads text files from the virtual filesystem.
type FileReader interface {
	ReadFile(path string) (string, error)
}

// ChangeFunc receives the new channel content after a transition.
type ChangeFunc func(content string)

// Config contains watcher configuration.
type Config struct {
	// Path is the file to poll.
	Path string

	// Interval is the delay between read cycles.
	// Default: 1s.
	Interval time.Duration

	// Clock schedules read cycles.
	// Default: wall clock.
	Clock clock.Clock

	// ErrorBuffer is the capacity of the Errors channel.
	// Default: 16.
	ErrorBuffer int

	// Metrics records polls and transitions. Optional.
	Metrics *metrics.Metrics
}
