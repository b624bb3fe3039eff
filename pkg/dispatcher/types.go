// Package dispatcher turns channel transitions into host actions.
//
// The dispatcher sits between the channel watcher and the host. Every
// transition re-arms a debounce timer, so a burst of writes is handled once
// with the content of the last write. Handling is guarded so that two
// invocations never overlap: a trigger that fires while another handling is
// running is dropped, not queued. Every handled command leaves the channel
// empty, and a gotoURL command clears the channel before the host is asked
// to navigate.
//
// Example usage:
//
//	d := dispatcher.New(dispatcher.Config{
//	    ChannelPath: "/easyrpg/texts/current_action.txt",
//	}, adapter, w, bridge, logger.Default())
//	if err := d.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Stop()
package dispatcher

import (
	"context"
	"time"

	"github.com/jetrotal/YN-HUB/pkg/clock"
	"github.com/jetrotal/YN-HUB/pkg/journal"
	"github.com/jetrotal/YN-HUB/pkg/metrics"
	"github.com/jetrotal/YN-HUB/pkg/watcher"
)

// Outcome is the result of one handling invocation.
type Outcome string

// Handling outcomes.
const (
	OutcomeNavigated Outcome = "navigated"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeIdle      Outcome = "idle"
	OutcomeDropped   Outcome = "dropped"
	OutcomeFailed    Outcome = "failed"
)

// Channel is the file access the dispatcher needs.
type Channel interface {
	ReadFile(path string) (string, error)
	WriteFile(path, content string) error
}

// Watcher delivers channel transitions.
type Watcher interface {
	Start(ctx context.Context, onChange watcher.ChangeFunc) error
	Stop()
}

// Navigator performs the host navigation side effect.
type Navigator interface {
	Navigate(ctx context.Context, location string)
}

// Config contains dispatcher configuration.
type Config struct {
	// ChannelPath is the command channel file.
	ChannelPath string

	// Debounce is the quiet period after the last transition before
	// handling runs.
	// Default: 250ms.
	Debounce time.Duration

	// SettleDelay is the pause after clearing a leftover command at
	// startup, before the watcher takes its baseline.
	// Default: 500ms.
	SettleDelay time.Duration

	// KeepPendingOnStop lets an armed debounce timer still fire after
	// Stop. By default Stop cancels it.
	KeepPendingOnStop bool

	// Clock drives the debounce and settle timers.
	// Default: wall clock.
	Clock clock.Clock

	// ErrorBuffer is the capacity of the Errors channel.
	// Default: 16.
	ErrorBuffer int
}

// Option configures optional collaborators.
type Option func(*Dispatcher)

// WithJournal records every handling invocation.
func WithJournal(j journal.Journal) Option {
	return func(d *Dispatcher) {
		d.journal = j
	}
}

// WithMetrics counts handling outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}
