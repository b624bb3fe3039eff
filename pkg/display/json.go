package display

import (
	"encoding/json"
	"io"

	"github.com/jetrotal/YN-HUB/pkg/journal"
	"github.com/jetrotal/YN-HUB/pkg/vfs"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// FormatHistory implements Formatter.FormatHistory.
func (f *jsonFormatter) FormatHistory(w io.Writer, entries []journal.Entry) error {
	if entries == nil {
		entries = []journal.Entry{}
	}
	return f.encode(w, entries)
}

// FormatListing implements Formatter.FormatListing.
func (f *jsonFormatter) FormatListing(w io.Writer, dir string, entries []vfs.Entry) error {
	if entries == nil {
		entries = []vfs.Entry{}
	}
	return f.encode(w, struct {
		Path    string      `json:"path"`
		Entries []vfs.Entry `json:"entries"`
	}{dir, entries})
}

// FormatCounters implements Formatter.FormatCounters.
func (f *jsonFormatter) FormatCounters(w io.Writer, counts map[string]int) error {
	if counts == nil {
		counts = map[string]int{}
	}
	return f.encode(w, counts)
}

func (f *jsonFormatter) encode(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(v)
}
