package counters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jetrotal/YN-HUB/pkg/clock"
	"github.com/jetrotal/YN-HUB/pkg/logger"
)

// Publisher writes fetched counters to the companion file.
type Publisher struct {
	fetcher Fetcher
	out     Writer
	logger  logger.Logger
	config  Config
}

// NewPublisher creates a publisher.
func NewPublisher(cfg Config, f Fetcher, out Writer, log logger.Logger) *Publisher {
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	return &Publisher{
		fetcher: f,
		out:     out,
		logger:  log.With("component", "counters", "path", cfg.OutputPath),
		config:  cfg,
	}
}

// Publish fetches counters once and writes them as a JSON object with
// sorted keys. The file is left untouched when the fetch fails.
func (p *Publisher) Publish(ctx context.Context) (map[string]int, error) {
	counts, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(counts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode counters: %w", err)
	}
	if err := p.out.WriteFile(p.config.OutputPath, string(data)); err != nil {
		return nil, fmt.Errorf("failed to write counters: %w", err)
	}

	p.logger.Debug("counters published", "count", len(counts))
	return counts, nil
}

// Run publishes immediately and then once per interval until ctx is
// cancelled. Failed publishes are logged and retried on the next interval.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("counters publisher started", "interval", p.config.Interval)

	for {
		if _, err := p.Publish(ctx); err != nil && ctx.Err() == nil {
			p.logger.Warn("counters publish failed", "error", err)
		}

		wake := make(chan struct{})
		timer := p.config.Clock.AfterFunc(p.config.Interval, func() { close(wake) })

		select {
		case <-ctx.Done():
			timer.Stop()
			p.logger.Info("counters publisher stopped")
			return nil
		case <-wake:
		}
	}
}
