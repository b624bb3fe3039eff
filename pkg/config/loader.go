package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Environment variables read by the loader.
const (
	EnvConfig      = "YNHUB_CONFIG"
	EnvRootDir     = "YNHUB_ROOT_DIR"
	EnvLogLevel    = "YNHUB_LOG_LEVEL"
	EnvListenAddr  = "YNHUB_LISTEN_ADDR"
	EnvCountersURL = "YNHUB_COUNTERS_URL"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile loads configuration from a specific file.
	LoadFromFile(path string) (*Config, error)
}

// loader implements the Loader interface.
type loader struct {
	configPath string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, the path is taken from YNHUB_CONFIG, or searched
// for in:
// 1. ./config.yaml, ./config.toml (current directory)
// 2. ~/.config/yn-hub/config.yaml.
func NewLoader(configPath string) Loader {
	if configPath == "" {
		configPath = os.Getenv(EnvConfig)
	}
	return &loader{
		configPath: configPath,
	}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	cfg := Default()

	configPath := l.configPath
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// An explicitly requested file must load; a discovered one may not exist.
			if l.configPath != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = mergeConfigs(cfg, fileCfg)
		}
	}

	cfg = applyEnvVars(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile. Files ending in .toml are
// decoded as TOML, everything else as YAML.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTOML, err)
		}
		return &cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return &cfg, nil
}

// ResolvePath returns the file Load would read for explicit, or "" when
// no file would be read.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return findConfigFile()
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// findConfigFile returns the first existing standard config file, or "".
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.toml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// mergeConfigs merges file configuration into default configuration.
//
// File values override defaults, but only if they are non-zero.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Storage.RootDir != "" {
		result.Storage.RootDir = override.Storage.RootDir
	}
	if override.Storage.VirtualRoot != "" {
		result.Storage.VirtualRoot = override.Storage.VirtualRoot
	}
	if override.Storage.JournalPath != "" {
		result.Storage.JournalPath = override.Storage.JournalPath
	}
	if override.Storage.JournalMaxEntries > 0 {
		result.Storage.JournalMaxEntries = override.Storage.JournalMaxEntries
	}

	if override.Channel.Path != "" {
		result.Channel.Path = override.Channel.Path
	}
	if override.Channel.PollInterval > 0 {
		result.Channel.PollInterval = override.Channel.PollInterval
	}
	if override.Channel.Debounce > 0 {
		result.Channel.Debounce = override.Channel.Debounce
	}
	if override.Channel.SettleDelay > 0 {
		result.Channel.SettleDelay = override.Channel.SettleDelay
	}
	// Both flags default to false, so the file value always wins.
	result.Channel.Notify = override.Channel.Notify
	result.Channel.KeepPendingOnStop = override.Channel.KeepPendingOnStop

	if override.Host.ListenAddr != "" {
		result.Host.ListenAddr = override.Host.ListenAddr
	}
	if len(override.Host.AllowedOrigins) > 0 {
		result.Host.AllowedOrigins = override.Host.AllowedOrigins
	}

	if override.Counters.URL != "" {
		result.Counters.URL = override.Counters.URL
	}
	if override.Counters.OutputPath != "" {
		result.Counters.OutputPath = override.Counters.OutputPath
	}
	if override.Counters.Interval > 0 {
		result.Counters.Interval = override.Counters.Interval
	}
	if override.Counters.Timeout > 0 {
		result.Counters.Timeout = override.Counters.Timeout
	}

	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvVars applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - YNHUB_ROOT_DIR: Host directory backing the virtual filesystem
//   - YNHUB_LOG_LEVEL: Log level
//   - YNHUB_LISTEN_ADDR: Host bridge address
//   - YNHUB_COUNTERS_URL: Counters endpoint
func applyEnvVars(cfg *Config) *Config {
	result := *cfg

	if rootDir := os.Getenv(EnvRootDir); rootDir != "" {
		result.Storage.RootDir = rootDir
	}

	if logLevel := os.Getenv(EnvLogLevel); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	if addr := os.Getenv(EnvListenAddr); addr != "" {
		result.Host.ListenAddr = addr
	}

	if url := os.Getenv(EnvCountersURL); url != "" {
		result.Counters.URL = url
	}

	return &result
}

// Load is a convenience function that creates a loader and loads configuration.
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile is a convenience function that loads configuration from a file.
//
// Equivalent to:
//
//	loader := NewLoader(path)
//	return loader.Load()
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist.
// File is created with 0600 permissions (read/write for owner only).
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal renders the configuration as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
