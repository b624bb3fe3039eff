package display

import (
	"fmt"
	"io"

	"github.com/jetrotal/YN-HUB/pkg/journal"
	"github.com/jetrotal/YN-HUB/pkg/vfs"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatHistory implements Formatter.FormatHistory.
func (f *simpleFormatter) FormatHistory(w io.Writer, entries []journal.Entry) error {
	for _, e := range entries {
		line := fmt.Sprintf("%s %s", e.Outcome, quote(e.Content))
		if f.config.ShowTimestamps {
			line = e.Time.Local().Format(timeLayout) + " " + line
		}
		if e.Error != "" {
			line += " (" + e.Error + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatListing implements Formatter.FormatListing.
func (f *simpleFormatter) FormatListing(w io.Writer, _ string, entries []vfs.Entry) error {
	for _, e := range entries {
		name := e.Name
		if e.Type == vfs.EntryDirectory {
			name += "/"
		}
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// FormatCounters implements Formatter.FormatCounters.
func (f *simpleFormatter) FormatCounters(w io.Writer, counts map[string]int) error {
	for _, k := range sortedKeys(counts) {
		if _, err := fmt.Fprintf(w, "%s: %d\n", k, counts[k]); err != nil {
			return err
		}
	}
	return nil
}
