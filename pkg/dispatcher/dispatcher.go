package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetrotal/YN-HUB/pkg/clock"
	"github.com/jetrotal/YN-HUB/pkg/journal"
	"github.com/jetrotal/YN-HUB/pkg/logger"
	"github.com/jetrotal/YN-HUB/pkg/metrics"
	"github.com/jetrotal/YN-HUB/pkg/vfs"
)

// Dispatcher debounces channel transitions and handles commands.
type Dispatcher struct {
	channel   Channel
	watcher   Watcher
	navigator Navigator
	logger    logger.Logger
	config    Config
	journal   journal.Journal
	metrics   *metrics.Metrics

	errors chan error

	// processing is true exactly while one handling invocation runs.
	processing atomic.Bool

	mu      sync.Mutex
	ctx     context.Context
	started bool
	stopped bool
	pending *pendingAction
	settle  clock.Timer
}

// pendingAction is an armed debounce timer and the content it will handle.
type pendingAction struct {
	timer   clock.Timer
	content string
}

// New creates a dispatcher. It does nothing until Start.
func New(cfg Config, ch Channel, w Watcher, nav Navigator, log logger.Logger, opts ...Option) *Dispatcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 500 * time.Millisecond
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.ErrorBuffer <= 0 {
		cfg.ErrorBuffer = 16
	}

	d := &Dispatcher{
		channel:   ch,
		watcher:   w,
		navigator: nav,
		logger:    log.With("component", "dispatcher"),
		config:    cfg,
		errors:    make(chan error, cfg.ErrorBuffer),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start clears a leftover command, if any, and starts the watcher. When a
// leftover was cleared the watcher starts only after the settle delay, so
// its baseline is taken from the settled, empty channel.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return ErrAlreadyStarted
	}
	d.started = true
	d.ctx = ctx
	d.mu.Unlock()

	if !d.bootstrap() {
		return d.startWatcher()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.stopped {
		d.settle = d.config.Clock.AfterFunc(d.config.SettleDelay, func() {
			if err := d.startWatcher(); err != nil {
				d.report(err)
			}
		})
	}
	return nil
}

// Stop stops the watcher and, unless KeepPendingOnStop is set, cancels the
// armed debounce timer. A handling invocation already running completes.
// Stop is idempotent.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	if d.settle != nil {
		d.settle.Stop()
	}
	if d.pending != nil && !d.config.KeepPendingOnStop {
		d.pending.timer.Stop()
		d.pending = nil
	}
	d.mu.Unlock()

	d.watcher.Stop()
	d.logger.Info("dispatcher stopped")
}

// Trigger arms the debounce timer for content, cancelling any timer armed
// by an earlier trigger. It is the watcher's change callback.
func (d *Dispatcher) Trigger(content string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		d.logger.Debug("trigger after stop ignored")
		return
	}
	if d.pending != nil {
		d.pending.timer.Stop()
	}

	p := &pendingAction{content: content}
	p.timer = d.config.Clock.AfterFunc(d.config.Debounce, func() { d.fire(p) })
	d.pending = p
}

// Handle runs one handling invocation for content. If another invocation
// is running it returns OutcomeDropped without touching the channel.
func (d *Dispatcher) Handle(ctx context.Context, content string) Outcome {
	if !d.processing.CompareAndSwap(false, true) {
		d.finish(Command{Raw: content}, OutcomeDropped, nil)
		return OutcomeDropped
	}
	defer d.processing.Store(false)

	cmd, outcome, err := d.process(ctx, content)
	d.finish(cmd, outcome, err)
	return outcome
}

// Processing reports whether a handling invocation is running.
func (d *Dispatcher) Processing() bool {
	return d.processing.Load()
}

// Pending returns the content of the armed debounce timer, if any.
func (d *Dispatcher) Pending() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return "", false
	}
	return d.pending.content, true
}

// Errors returns handling and bootstrap errors. They are also logged and
// never stop the dispatcher. Errors are dropped when nobody drains the
// channel.
func (d *Dispatcher) Errors() <-chan error {
	return d.errors
}

// bootstrap reports whether a leftover command was found and cleared.
func (d *Dispatcher) bootstrap() bool {
	content, err := d.channel.ReadFile(d.config.ChannelPath)
	if err != nil {
		if errors.Is(err, vfs.ErrNotFound) {
			d.logger.Debug("channel does not exist yet", "path", d.config.ChannelPath)
		} else {
			d.report(fmt.Errorf("failed to read channel at startup: %w", err))
		}
		return false
	}
	if strings.TrimSpace(content) == "" {
		return false
	}

	d.logger.Info("clearing leftover command", "content_len", len(content))
	if err := d.clear(); err != nil {
		d.report(err)
	}
	return true
}

func (d *Dispatcher) startWatcher() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return nil
	}
	if err := d.watcher.Start(d.ctx, d.Trigger); err != nil {
		return fmt.Errorf("failed to start channel watcher: %w", err)
	}

	d.logger.Info("dispatcher started",
		"path", d.config.ChannelPath,
		"debounce", d.config.Debounce)
	return nil
}

func (d *Dispatcher) fire(p *pendingAction) {
	d.mu.Lock()
	if d.pending != p {
		// Superseded by a later trigger whose Stop lost the race.
		d.mu.Unlock()
		return
	}
	d.pending = nil
	if d.stopped && !d.config.KeepPendingOnStop {
		d.mu.Unlock()
		return
	}
	ctx := d.ctx
	d.mu.Unlock()

	d.Handle(ctx, p.content)
}

func (d *Dispatcher) process(ctx context.Context, content string) (cmd Command, outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = OutcomeFailed
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	cmd, parseErr := ParseCommand(content)

	if cmd.Kind == KindIdle {
		return cmd, OutcomeIdle, nil
	}

	// The channel is emptied before navigating so a slow or failing
	// navigation can never leave the command behind to be replayed.
	if err := d.clear(); err != nil {
		return cmd, OutcomeFailed, err
	}

	switch {
	case cmd.Kind == KindGoto && parseErr == nil:
		d.navigator.Navigate(ctx, cmd.Location)
		return cmd, OutcomeNavigated, nil
	case cmd.Kind == KindGoto:
		return cmd, OutcomeInvalid, parseErr
	default:
		return cmd, OutcomeIgnored, nil
	}
}

func (d *Dispatcher) clear() error {
	if err := d.channel.WriteFile(d.config.ChannelPath, ""); err != nil {
		return fmt.Errorf("failed to clear channel: %w", err)
	}
	return nil
}

func (d *Dispatcher) finish(cmd Command, outcome Outcome, err error) {
	d.metrics.ObserveAction(string(outcome))

	switch outcome {
	case OutcomeNavigated:
		d.logger.Info("navigation requested", "location", cmd.Location)
	case OutcomeInvalid:
		d.logger.Warn("invalid gotoURL command discarded", "error", err)
	case OutcomeIgnored:
		d.logger.Info("unrecognized command discarded", "content_len", len(cmd.Raw))
	case OutcomeDropped:
		d.logger.Debug("handling in progress, trigger dropped")
	case OutcomeFailed:
		d.logger.Error("command handling failed", "error", err)
	case OutcomeIdle:
		d.logger.Debug("channel idle")
		return
	}

	if err != nil {
		d.report(err)
	}
	d.record(cmd, outcome, err)
}

func (d *Dispatcher) record(cmd Command, outcome Outcome, err error) {
	if d.journal == nil {
		return
	}

	entry := journal.Entry{
		Time:     d.config.Clock.Now().UTC(),
		Content:  cmd.Raw,
		Location: cmd.Location,
		Outcome:  string(outcome),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if recErr := d.journal.Record(entry); recErr != nil {
		d.logger.Warn("failed to record journal entry", "error", recErr)
	}
}

func (d *Dispatcher) report(err error) {
	select {
	case d.errors <- err:
	default:
		d.logger.Warn("error channel full, dropping error", "error", err)
	}
}
