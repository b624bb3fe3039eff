// Package config provides configuration management for yn-hub.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file (YAML, or TOML when the file ends in .toml)
// 3. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("channel: %s\n", cfg.Channel.Path)
package config

import (
	"strings"
	"time"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Storage.RootDir is not empty
// - Storage.VirtualRoot and Channel.Path are absolute
// - every duration is > 0
// - Storage.JournalMaxEntries is > 0.
type Config struct {
	// Storage settings
	Storage StorageConfig `yaml:"storage" toml:"storage"`

	// Command channel settings
	Channel ChannelConfig `yaml:"channel" toml:"channel"`

	// Host bridge settings
	Host HostConfig `yaml:"host" toml:"host"`

	// Counter publishing settings
	Counters CountersConfig `yaml:"counters" toml:"counters"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Host directory backing the virtual filesystem
	RootDir string `yaml:"root_dir" toml:"root_dir"`

	// Virtual root every channel path lives under
	VirtualRoot string `yaml:"virtual_root" toml:"virtual_root"`

	// Path to the BoltDB history file
	JournalPath string `yaml:"journal_path" toml:"journal_path"`

	// Maximum number of history entries kept
	JournalMaxEntries int `yaml:"journal_max_entries" toml:"journal_max_entries"`
}

// ChannelConfig contains command channel settings.
type ChannelConfig struct {
	// Virtual path of the channel file
	Path string `yaml:"path" toml:"path"`

	// How often the channel is read
	PollInterval time.Duration `yaml:"poll_interval" toml:"poll_interval"`

	// Quiet period before a transition is handled
	Debounce time.Duration `yaml:"debounce" toml:"debounce"`

	// Pause after clearing a leftover command at startup
	SettleDelay time.Duration `yaml:"settle_delay" toml:"settle_delay"`

	// Wake the poller early on filesystem events
	Notify bool `yaml:"notify" toml:"notify"`

	// Let an armed debounce timer fire after shutdown
	KeepPendingOnStop bool `yaml:"keep_pending_on_stop" toml:"keep_pending_on_stop"`
}

// HostConfig contains host bridge settings.
type HostConfig struct {
	// Address the bridge listens on
	ListenAddr string `yaml:"listen_addr" toml:"listen_addr"`

	// Origins allowed to connect; empty allows same-origin only
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`
}

// CountersConfig contains counter publishing settings.
type CountersConfig struct {
	// Endpoint serving the counters; empty disables publishing
	URL string `yaml:"url" toml:"url"`

	// Virtual path of the companion file
	OutputPath string `yaml:"output_path" toml:"output_path"`

	// Delay between publishes
	Interval time.Duration `yaml:"interval" toml:"interval"`

	// Request timeout
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" toml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output" toml:"output"`

	// Log format (text, json, auto)
	Format string `yaml:"format" toml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	if c.Storage.RootDir == "" {
		return ErrNoRootDir
	}
	if !strings.HasPrefix(c.Storage.VirtualRoot, "/") {
		return ErrInvalidVirtualRoot
	}
	if c.Storage.JournalMaxEntries <= 0 {
		return ErrInvalidJournalSize
	}

	if !strings.HasPrefix(c.Channel.Path, "/") {
		return ErrInvalidChannelPath
	}
	if c.Channel.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}
	if c.Channel.Debounce <= 0 {
		return ErrInvalidDebounce
	}
	if c.Channel.SettleDelay <= 0 {
		return ErrInvalidSettleDelay
	}

	if c.Host.ListenAddr == "" {
		return ErrNoListenAddr
	}

	if c.Counters.Interval <= 0 || c.Counters.Timeout <= 0 {
		return ErrInvalidCounters
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"auto": true,
	}
	if !validFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			RootDir:           defaultRootDir(),
			VirtualRoot:       "/easyrpg",
			JournalPath:       defaultJournalPath(),
			JournalMaxEntries: 1000,
		},
		Channel: ChannelConfig{
			Path:         "/easyrpg/texts/current_action.txt",
			PollInterval: 1 * time.Second,
			Debounce:     250 * time.Millisecond,
			SettleDelay:  500 * time.Millisecond,
		},
		Host: HostConfig{
			ListenAddr: "127.0.0.1:8765",
		},
		Counters: CountersConfig{
			OutputPath: "/easyrpg/texts/counters.json",
			Interval:   5 * time.Minute,
			Timeout:    10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "auto",
		},
	}
}
