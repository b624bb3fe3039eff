package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/jetrotal/YN-HUB/pkg/clock"
	"github.com/jetrotal/YN-HUB/pkg/logger"
)

// Watcher polls one file. One baseline exists per Watcher; it survives a
// Stop/Start pair.
type Watcher struct {
	reader FileReader
	logger logger.Logger
	config Config

	errors chan error

	// cycleMu serializes read cycles from the schedule and from Poke.
	cycleMu sync.Mutex

	mu        sync.Mutex
	running   bool
	gen       uint64
	seeded    bool
	baseline  string
	onChange  ChangeFunc
	next      clock.Timer
	unhookCtx func() bool
}

// New creates a watcher for cfg.Path.
func New(cfg Config, r FileReader, log logger.Logger) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, ErrInvalidPath
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.ErrorBuffer <= 0 {
		cfg.ErrorBuffer = 16
	}

	log = log.With("component", "watcher", "path", cfg.Path)
	log.Debug("channel watcher created", "interval", cfg.Interval)

	return &Watcher{
		reader: r,
		logger: log,
		config: cfg,
		errors: make(chan error, cfg.ErrorBuffer),
	}, nil
}

// Start schedules an immediate read cycle and one per interval after that.
// Cancelling ctx has the same effect as Stop.
func (w *Watcher) Start(ctx context.Context, onChange ChangeFunc) error {
	if onChange == nil {
		return ErrNilCallback
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrAlreadyStarted
	}
	w.running = true
	w.onChange = onChange
	w.gen++
	w.unhookCtx = context.AfterFunc(ctx, w.Stop)
	w.schedule(0, w.gen)

	w.logger.Info("channel watcher started", "interval", w.config.Interval)
	return nil
}

// Stop prevents further cycles from being scheduled. A cycle already in
// progress runs to completion. Stop is idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	if w.next != nil {
		w.next.Stop()
		w.next = nil
	}
	if w.unhookCtx != nil {
		w.unhookCtx()
		w.unhookCtx = nil
	}

	w.logger.Info("channel watcher stopped")
}

// Poke runs one read cycle now without touching the schedule.
func (w *Watcher) Poke() {
	if !w.Running() {
		return
	}
	w.cycleMu.Lock()
	defer w.cycleMu.Unlock()
	w.poll()
}

// Running reports whether the watcher is scheduled to poll.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Baseline returns the last known content and whether it has been seeded.
func (w *Watcher) Baseline() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.baseline, w.seeded
}

// Errors returns failed read cycles as *PollError values. Errors are
// dropped when nobody drains the channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// schedule must be called with mu held.
func (w *Watcher) schedule(d time.Duration, gen uint64) {
	w.next = w.config.Clock.AfterFunc(d, func() { w.tick(gen) })
}

func (w *Watcher) current(gen uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running && w.gen == gen
}

func (w *Watcher) tick(gen uint64) {
	if !w.current(gen) {
		return
	}

	w.cycleMu.Lock()
	w.poll()
	w.cycleMu.Unlock()

	w.mu.Lock()
	if w.running && w.gen == gen {
		w.schedule(w.config.Interval, gen)
	}
	w.mu.Unlock()
}

// poll must be called with cycleMu held.
func (w *Watcher) poll() {
	content, err := w.reader.ReadFile(w.config.Path)
	w.config.Metrics.ObservePoll(err)
	if err != nil {
		w.report(&PollError{Path: w.config.Path, Err: err})
		return
	}

	w.mu.Lock()
	if !w.seeded {
		w.seeded = true
		w.baseline = content
		w.mu.Unlock()
		w.logger.Debug("baseline seeded", "content_len", len(content))
		return
	}
	if content == w.baseline {
		w.mu.Unlock()
		return
	}
	w.baseline = content
	onChange := w.onChange
	w.mu.Unlock()

	w.config.Metrics.ObserveTransition()
	w.logger.Debug("channel content changed", "content_len", len(content))
	onChange(content)
}

func (w *Watcher) report(err error) {
	w.logger.Warn("channel poll failed", "error", err)

	select {
	case w.errors <- err:
	default:
		w.logger.Warn("error channel full, dropping error")
	}
}
