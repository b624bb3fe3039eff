package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/jetrotal/YN-HUB/pkg/journal"
	"github.com/jetrotal/YN-HUB/pkg/vfs"
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatHistory implements Formatter.FormatHistory.
func (f *tableFormatter) FormatHistory(w io.Writer, entries []journal.Entry) error {
	if err := writeHeader(w, "Command History", f.config.Compact); err != nil {
		return err
	}

	header := []string{"Outcome", "Command", "Error"}
	if f.config.ShowTimestamps {
		header = append([]string{"Time"}, header...)
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		row := []string{e.Outcome, quote(e.Content), e.Error}
		if f.config.ShowTimestamps {
			row = append([]string{e.Time.Local().Format(timeLayout)}, row...)
		}
		rows[i] = row
	}

	return f.writeTable(w, header, rows)
}

// FormatListing implements Formatter.FormatListing.
func (f *tableFormatter) FormatListing(w io.Writer, dir string, entries []vfs.Entry) error {
	if err := writeHeader(w, dir, f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Name, string(e.Type)}
	}

	return f.writeTable(w, []string{"Name", "Type"}, rows)
}

// FormatCounters implements Formatter.FormatCounters.
func (f *tableFormatter) FormatCounters(w io.Writer, counts map[string]int) error {
	if err := writeHeader(w, "Counters", f.config.Compact); err != nil {
		return err
	}

	keys := sortedKeys(counts)
	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{k, formatNumber(counts[k])}
	}

	return f.writeTable(w, []string{"ID", "Count"}, rows)
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// writeRow writes a single table row. Trailing padding is trimmed.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	gap := "  "
	if f.config.Compact {
		gap = " "
	}

	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(gap)
		}
		fmt.Fprintf(&b, "%-*s", widths[i], cell)
	}

	_, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	return err
}
