package clock

import (
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called.
//
// Callbacks run synchronously on the goroutine calling Advance, in deadline
// order. Callbacks scheduled by a running callback are honoured within the
// same Advance call when they fall due before its target time.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	m    *Manual
	when time.Time
	seq  uint64
	fn   func()
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules f to run once virtual time reaches Now()+d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, when: m.now.Add(d), seq: m.seq, fn: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves virtual time forward by d, running every callback that
// falls due. Advance(0) runs callbacks scheduled for the current instant.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		t := m.popDueLocked(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		if t.when.After(m.now) {
			m.now = t.when
		}
		m.mu.Unlock()

		t.fn()
	}
}

// Pending returns the number of scheduled callbacks that have not run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *Manual) popDueLocked(target time.Time) *manualTimer {
	idx := -1
	for i, t := range m.timers {
		if t.when.After(target) {
			continue
		}
		if idx < 0 || t.when.Before(m.timers[idx].when) ||
			(t.when.Equal(m.timers[idx].when) && t.seq < m.timers[idx].seq) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	t := m.timers[idx]
	m.timers = append(m.timers[:idx], m.timers[idx+1:]...)
	return t
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	for i, other := range t.m.timers {
		if other == t {
			t.m.timers = append(t.m.timers[:i], t.m.timers[i+1:]...)
			return true
		}
	}
	return false
}
