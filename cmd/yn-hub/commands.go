package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jetrotal/YN-HUB/pkg/clock"
	"github.com/jetrotal/YN-HUB/pkg/config"
	"github.com/jetrotal/YN-HUB/pkg/counters"
	"github.com/jetrotal/YN-HUB/pkg/dispatcher"
	"github.com/jetrotal/YN-HUB/pkg/display"
	"github.com/jetrotal/YN-HUB/pkg/host"
	"github.com/jetrotal/YN-HUB/pkg/journal"
	"github.com/jetrotal/YN-HUB/pkg/logger"
	"github.com/jetrotal/YN-HUB/pkg/metrics"
	"github.com/jetrotal/YN-HUB/pkg/vfs"
	"github.com/jetrotal/YN-HUB/pkg/watcher"
)

// app holds what every command needs.
type app struct {
	configPath string
	out        io.Writer
}

// load reads the configuration and builds the logger.
func (a *app) load() (*config.Config, logger.Logger, error) {
	cfg, err := config.NewLoader(a.configPath).Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	return cfg, log, nil
}

// filesystem returns the adapter over the configured root directory.
func filesystem(cfg *config.Config, log logger.Logger) (*vfs.Adapter, *vfs.OSFS) {
	raw := vfs.NewOSFS(cfg.Storage.RootDir)
	return vfs.NewAdapter(raw, cfg.Storage.VirtualRoot, log), raw
}

// runServe runs the run command.
func (a *app) runServe(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(a.out)
	dryRun := fs.Bool("dry-run", false, "log navigations instead of serving the host bridge")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, log, err := a.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &serveCommand{cfg: cfg, log: log, dryRun: *dryRun, out: a.out}
	return cmd.serve(ctx)
}

// serveCommand wires the channel, dispatcher and host bridge together.
type serveCommand struct {
	cfg    *config.Config
	log    logger.Logger
	dryRun bool
	out    io.Writer

	// ready is called once the dispatcher has started.
	ready func()
}

// serve blocks until ctx is cancelled or the host bridge fails.
func (c *serveCommand) serve(ctx context.Context) error {
	cfg, log := c.cfg, c.log

	adapter, raw := filesystem(cfg, log)
	m := metrics.New()
	clk := clock.New()

	// Seed the watcher baseline from an empty channel rather than from the
	// first command written after startup.
	if !adapter.Exists(cfg.Channel.Path) {
		if err := adapter.WriteFile(cfg.Channel.Path, ""); err != nil {
			return fmt.Errorf("failed to create channel: %w", err)
		}
	}

	var j journal.Journal
	if c.dryRun {
		j = journal.NewMemory(cfg.Storage.JournalMaxEntries)
	} else {
		var err error
		j, err = journal.Open(journal.Config{
			Path:       cfg.Storage.JournalPath,
			MaxEntries: cfg.Storage.JournalMaxEntries,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
	}
	defer func() {
		if err := j.Close(); err != nil {
			log.Error("failed to close journal", "error", err)
		}
	}()

	w, err := watcher.New(watcher.Config{
		Path:     cfg.Channel.Path,
		Interval: cfg.Channel.PollInterval,
		Clock:    clk,
		Metrics:  m,
	}, adapter, log)
	if err != nil {
		return fmt.Errorf("failed to initialize watcher: %w", err)
	}

	errCh := make(chan error, 1)

	var nav dispatcher.Navigator
	if c.dryRun {
		nav = host.LogNavigator{Logger: log}
	} else {
		bridge := host.NewBridge(host.Config{
			Addr:           cfg.Host.ListenAddr,
			AllowedOrigins: cfg.Host.AllowedOrigins,
		}, log, m)
		nav = bridge
		go func() {
			errCh <- bridge.ListenAndServe(ctx)
		}()
	}

	if cfg.Channel.Notify {
		n, err := watcher.NewNotifier(raw.Resolve(adapter.Normalize(cfg.Channel.Path)), w.Poke, log)
		if err != nil {
			log.Warn("channel notifications unavailable, polling only", "error", err)
		} else {
			defer func() {
				if err := n.Close(); err != nil {
					log.Error("failed to close notifier", "error", err)
				}
			}()
			go n.Run(ctx)
		}
	}

	if cfg.Counters.URL != "" {
		p := counters.NewPublisher(counters.Config{
			OutputPath: cfg.Counters.OutputPath,
			Interval:   cfg.Counters.Interval,
			Clock:      clk,
		}, &counters.HTTPFetcher{
			URL:     cfg.Counters.URL,
			Timeout: cfg.Counters.Timeout,
		}, adapter, log)
		go func() {
			_ = p.Run(ctx) // nolint:errcheck
		}()
	}

	d := dispatcher.New(dispatcher.Config{
		ChannelPath:       cfg.Channel.Path,
		Debounce:          cfg.Channel.Debounce,
		SettleDelay:       cfg.Channel.SettleDelay,
		KeepPendingOnStop: cfg.Channel.KeepPendingOnStop,
		Clock:             clk,
	}, adapter, w, nav, log,
		dispatcher.WithJournal(j),
		dispatcher.WithMetrics(m))

	if err := d.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}
	defer d.Stop()

	// Both components log their errors; drain so the buffers never fill.
	go drain(ctx, w.Errors())
	go drain(ctx, d.Errors())

	if c.ready != nil {
		c.ready()
	}

	fmt.Fprintf(c.out, "Watching %s under %s", cfg.Channel.Path, cfg.Storage.RootDir)
	if !c.dryRun {
		fmt.Fprintf(c.out, ", host bridge on %s", cfg.Host.ListenAddr)
	}
	fmt.Fprintln(c.out, " - press Ctrl+C to stop")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(c.out, "Stopping...")
	return nil
}

func drain(ctx context.Context, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-errs:
		}
	}
}

// runSend writes its arguments, joined by spaces, to the channel.
func (a *app) runSend(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("send requires a command, e.g. send gotoURL https://example.com")
	}

	cfg, log, err := a.load()
	if err != nil {
		return err
	}

	adapter, _ := filesystem(cfg, log)
	content := strings.Join(args, " ")
	if err := adapter.WriteFile(cfg.Channel.Path, content); err != nil {
		return fmt.Errorf("failed to write channel: %w", err)
	}

	fmt.Fprintf(a.out, "Wrote %d bytes to %s\n", len(content), cfg.Channel.Path)
	return nil
}

// runClear empties the channel.
func (a *app) runClear() error {
	cfg, log, err := a.load()
	if err != nil {
		return err
	}

	adapter, _ := filesystem(cfg, log)
	if err := adapter.WriteFile(cfg.Channel.Path, ""); err != nil {
		return fmt.Errorf("failed to clear channel: %w", err)
	}

	fmt.Fprintf(a.out, "Cleared %s\n", cfg.Channel.Path)
	return nil
}

// runRead prints the channel content. On a terminal the content is quoted
// so that whitespace is visible; otherwise it is printed verbatim.
func (a *app) runRead() error {
	cfg, log, err := a.load()
	if err != nil {
		return err
	}

	adapter, _ := filesystem(cfg, log)
	content, err := adapter.ReadFile(cfg.Channel.Path)
	if err != nil {
		return fmt.Errorf("failed to read channel: %w", err)
	}

	if !logger.IsTerminal(a.out) {
		_, err := io.WriteString(a.out, content)
		return err
	}

	if content == "" {
		fmt.Fprintln(a.out, "(empty)")
		return nil
	}
	fmt.Fprintf(a.out, "%q\n", content)
	return nil
}

// runList lists a virtual directory.
func (a *app) runList(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(a.out)
	format := fs.String("format", "simple", "output format (table, json, simple)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := display.ParseFormat(*format)
	if err != nil {
		return err
	}

	cfg, log, err := a.load()
	if err != nil {
		return err
	}

	adapter, _ := filesystem(cfg, log)
	dir := adapter.Root()
	if fs.NArg() > 0 {
		dir = adapter.Normalize(fs.Arg(0))
	}

	entries, err := adapter.ListDirectory(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	return display.New(display.Config{Format: f}).FormatListing(a.out, dir, entries)
}

// runHistory shows handled commands, newest first.
func (a *app) runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(a.out)
	limit := fs.Int("limit", 20, "number of entries to show (0 for all)")
	format := fs.String("format", "table", "output format (table, json, simple)")
	timestamps := fs.Bool("timestamps", false, "show timestamps")
	compact := fs.Bool("compact", false, "compact output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := display.ParseFormat(*format)
	if err != nil {
		return err
	}

	cfg, log, err := a.load()
	if err != nil {
		return err
	}

	j, err := journal.Open(journal.Config{
		Path:       cfg.Storage.JournalPath,
		MaxEntries: cfg.Storage.JournalMaxEntries,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to open journal (is yn-hub run active?): %w", err)
	}
	defer func() {
		if err := j.Close(); err != nil {
			log.Error("failed to close journal", "error", err)
		}
	}()

	entries, err := j.List(*limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	return display.New(display.Config{
		Format:         f,
		ShowTimestamps: *timestamps,
		Compact:        *compact,
	}).FormatHistory(a.out, entries)
}

// runCounters fetches and publishes counters once.
func (a *app) runCounters(args []string) error {
	fs := flag.NewFlagSet("counters", flag.ContinueOnError)
	fs.SetOutput(a.out)
	format := fs.String("format", "simple", "output format (table, json, simple)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := display.ParseFormat(*format)
	if err != nil {
		return err
	}

	cfg, log, err := a.load()
	if err != nil {
		return err
	}

	adapter, _ := filesystem(cfg, log)
	p := counters.NewPublisher(counters.Config{
		OutputPath: cfg.Counters.OutputPath,
	}, &counters.HTTPFetcher{
		URL:     cfg.Counters.URL,
		Timeout: cfg.Counters.Timeout,
	}, adapter, log)

	counts, err := p.Publish(context.Background())
	if err != nil {
		return err
	}

	return display.New(display.Config{Format: f}).FormatCounters(a.out, counts)
}
