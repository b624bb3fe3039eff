// Package journal keeps a history of handled channel commands.
//
// Every handling invocation of the dispatcher produces one Entry. The
// bbolt-backed store survives restarts so `yn-hub history` can show what a
// host asked for and what happened; the in-memory store serves tests and
// dry runs.
package journal

import (
	"time"
)

// Entry describes one handled command.
type Entry struct {
	// ID uniquely identifies the entry. Assigned on Record when empty.
	ID string `json:"id"`

	// Time is when handling finished. Assigned on Record when zero.
	Time time.Time `json:"time"`

	// Content is the raw channel content that was handled.
	Content string `json:"content"`

	// Location is the navigation target, if the command carried one.
	Location string `json:"location,omitempty"`

	// Outcome is the dispatcher outcome (navigated, invalid, ignored, ...).
	Outcome string `json:"outcome"`

	// Error holds the handling error, if any.
	Error string `json:"error,omitempty"`
}

// Journal records and lists handled commands.
type Journal interface {
	// Record appends an entry.
	Record(entry Entry) error

	// List returns up to limit entries, newest first. A limit <= 0 returns all.
	List(limit int) ([]Entry, error)

	// Close releases the underlying storage.
	Close() error
}

// Config contains bbolt journal configuration.
type Config struct {
	// Path is the database file. Parent directories are created.
	Path string

	// Timeout bounds how long Open waits for the file lock.
	// Default: 1s.
	Timeout time.Duration

	// MaxEntries caps the history; older entries are pruned.
	// Default: 1000.
	MaxEntries int
}
