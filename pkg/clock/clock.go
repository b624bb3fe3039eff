// Package clock provides the scheduling abstraction shared by the channel
// watcher, the debounce timer and the counter publisher.
//
// All timed work in yn-hub is expressed as callbacks scheduled with
// AfterFunc. Production code uses New, which is backed by
// github.com/benbjohnson/clock; tests use a Manual clock and advance
// virtual time explicitly.
package clock

import (
	"time"

	bclock "github.com/benbjohnson/clock"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the
	// call stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Clock schedules callbacks and reports the current time.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type wrapped struct {
	c bclock.Clock
}

// New returns a Clock backed by the wall clock.
func New() Clock {
	return Wrap(bclock.New())
}

// Wrap adapts any benbjohnson clock, including its Mock.
func Wrap(c bclock.Clock) Clock {
	return &wrapped{c: c}
}

func (w *wrapped) Now() time.Time {
	return w.c.Now()
}

func (w *wrapped) AfterFunc(d time.Duration, f func()) Timer {
	return w.c.AfterFunc(d, f)
}
