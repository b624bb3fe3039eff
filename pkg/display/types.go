// Package display provides output formatting for the yn-hub CLI.
//
// It supports multiple output formats (table, JSON, simple text) for the
// command history, virtual directory listings and published counters.
package display

import (
	"io"

	"github.com/jetrotal/YN-HUB/pkg/journal"
	"github.com/jetrotal/YN-HUB/pkg/vfs"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays data in a formatted table.
	FormatTable Format = "table"

	// FormatJSON displays data as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays data one line per item.
	FormatSimple Format = "simple"
)

// Formatter formats CLI output.
type Formatter interface {
	// FormatHistory formats handled commands, newest first.
	//
	// Parameters:
	//   - w: Output writer
	//   - entries: Journal entries to format
	//
	// Returns error if formatting fails.
	FormatHistory(w io.Writer, entries []journal.Entry) error

	// FormatListing formats a virtual directory listing.
	FormatListing(w io.Writer, dir string, entries []vfs.Entry) error

	// FormatCounters formats published counters sorted by identifier.
	FormatCounters(w io.Writer, counts map[string]int) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// ShowTimestamps enables timestamp display.
	ShowTimestamps bool

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool
}
