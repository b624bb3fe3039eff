package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrNoRootDir is returned when no storage root directory is set.
	ErrNoRootDir = errors.New("no storage root directory specified")

	// ErrInvalidVirtualRoot is returned when the virtual root is not absolute.
	ErrInvalidVirtualRoot = errors.New("invalid virtual root: must start with /")

	// ErrInvalidJournalSize is returned when journal_max_entries is <= 0.
	ErrInvalidJournalSize = errors.New("invalid journal size: must be > 0")

	// ErrInvalidChannelPath is returned when the channel path is not absolute.
	ErrInvalidChannelPath = errors.New("invalid channel path: must start with /")

	// ErrInvalidPollInterval is returned when poll interval is <= 0.
	ErrInvalidPollInterval = errors.New("invalid poll interval: must be > 0")

	// ErrInvalidDebounce is returned when debounce is <= 0.
	ErrInvalidDebounce = errors.New("invalid debounce: must be > 0")

	// ErrInvalidSettleDelay is returned when settle delay is <= 0.
	ErrInvalidSettleDelay = errors.New("invalid settle delay: must be > 0")

	// ErrNoListenAddr is returned when the host listen address is empty.
	ErrNoListenAddr = errors.New("no host listen address specified")

	// ErrInvalidCounters is returned when counter interval or timeout is <= 0.
	ErrInvalidCounters = errors.New("invalid counters settings: interval and timeout must be > 0")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text, json, or auto")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")

	// ErrInvalidTOML is returned when config file has invalid TOML syntax.
	ErrInvalidTOML = errors.New("invalid TOML syntax in config file")
)
