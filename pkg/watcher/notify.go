package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jetrotal/YN-HUB/pkg/logger"
)

// Notifier turns OS file notifications for the channel's backing file into
// early read cycles. It only shortens latency; the poll schedule still
// decides what counts as a transition.
type Notifier struct {
	fsw    *fsnotify.Watcher
	target string
	poke   func()
	logger logger.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewNotifier watches the directory containing hostPath and calls poke on
// every create or write of hostPath. The directory is created if missing.
func NewNotifier(hostPath string, poke func(), log logger.Logger) (*Notifier, error) {
	target := filepath.Clean(hostPath)
	dir := filepath.Dir(target)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create channel directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close() // nolint:errcheck
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Notifier{
		fsw:    fsw,
		target: target,
		poke:   poke,
		logger: log.With("component", "notifier", "path", target),
		done:   make(chan struct{}),
	}, nil
}

// Run forwards notifications until ctx is cancelled or Close is called.
func (n *Notifier) Run(ctx context.Context) {
	n.logger.Debug("channel notifier running")

	for {
		select {
		case <-ctx.Done():
			return

		case <-n.done:
			return

		case event, ok := <-n.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != n.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			n.poke()

		case err, ok := <-n.fsw.Errors:
			if !ok {
				return
			}
			n.logger.Warn("fsnotify error", "error", err)
		}
	}
}

// Close stops Run and releases the OS watch.
func (n *Notifier) Close() error {
	var err error
	n.closeOnce.Do(func() {
		close(n.done)
		if closeErr := n.fsw.Close(); closeErr != nil {
			err = fmt.Errorf("failed to close notifier: %w", closeErr)
		}
	})
	return err
}
