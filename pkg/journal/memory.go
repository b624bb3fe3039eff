package journal

import (
	"sync"
)

type memoryJournal struct {
	mu      sync.RWMutex
	entries []Entry
	max     int
	closed  bool
}

// NewMemory returns an in-memory journal keeping at most max entries
// (unbounded when max <= 0).
func NewMemory(max int) Journal {
	return &memoryJournal{max: max}
}

func (j *memoryJournal) Record(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}

	fill(&entry)
	j.entries = append(j.entries, entry)
	if j.max > 0 && len(j.entries) > j.max {
		j.entries = append([]Entry(nil), j.entries[len(j.entries)-j.max:]...)
	}
	return nil
}

func (j *memoryJournal) List(limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return nil, ErrClosed
	}

	n := len(j.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(j.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, j.entries[i])
	}
	return out, nil
}

func (j *memoryJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = true
	return nil
}
