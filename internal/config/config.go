// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/sinkswitch/internal/model"
	"github.com/jmylchreest/sinkswitch/internal/pulse"
)

// Default configuration values.
const (
	DefaultFallbackSink  = "HDA Intel PCH"
	DefaultPreferredSink = "USB Audio DAC"
	DefaultLogLevel      = "info"
	DefaultVolume        = 80
	DefaultMinInterval   = 5 * time.Second
	DefaultExpireTimeout = 3 * time.Second
)

// Config represents the sinkswitch configuration.
// Every field has a default, so running without a config file is normal.
type Config struct {
	Roles    model.Roles    `toml:"roles"`
	Commands pulse.Commands `toml:"commands"`
	Notify   NotifyConfig   `toml:"notify"`
	Feedback FeedbackConfig `toml:"feedback"`
	Log      LogConfig      `toml:"log"`
}

// NotifyConfig controls desktop notifications sent after a switch.
type NotifyConfig struct {
	Enabled       bool     `toml:"enabled"`
	MinInterval   Duration `toml:"min_interval"`   // Suppress repeats of the same switch within this window
	ExpireTimeout Duration `toml:"expire_timeout"` // How long the popup stays up
}

// FeedbackConfig controls the confirmation sound played after a switch.
type FeedbackConfig struct {
	Enabled bool   `toml:"enabled"`
	Sound   string `toml:"sound"`  // WAV, OGG or MP3 file
	Volume  int    `toml:"volume"` // 0-100
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Roles: model.Roles{
			Fallback:  DefaultFallbackSink,
			Preferred: DefaultPreferredSink,
		},
		Commands: pulse.DefaultCommands(),
		Notify: NotifyConfig{
			Enabled:       false,
			MinInterval:   Duration(DefaultMinInterval),
			ExpireTimeout: Duration(DefaultExpireTimeout),
		},
		Feedback: FeedbackConfig{
			Enabled: false,
			Volume:  DefaultVolume,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "sinkswitch", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Roles.Fallback) == "" {
		return errors.New("roles.fallback must not be empty")
	}
	if strings.TrimSpace(c.Roles.Preferred) == "" {
		return errors.New("roles.preferred must not be empty")
	}
	if c.Roles.Fallback == c.Roles.Preferred {
		return fmt.Errorf("roles.fallback and roles.preferred must differ, both are %q", c.Roles.Fallback)
	}

	if err := c.Commands.Validate(); err != nil {
		return err
	}

	if c.Feedback.Volume < 0 || c.Feedback.Volume > 100 {
		return fmt.Errorf("feedback.volume must be between 0 and 100, got %d", c.Feedback.Volume)
	}
	if c.Feedback.Enabled && c.Feedback.Sound == "" {
		return errors.New("feedback.sound is required when feedback is enabled")
	}
	if c.Notify.MinInterval < 0 {
		return fmt.Errorf("notify.min_interval must not be negative, got %s", c.Notify.MinInterval.Duration())
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// SoundPath returns the feedback sound path with ~ expanded.
func (c *Config) SoundPath() string {
	return expandPath(c.Feedback.Sound)
}

// ParseLogLevel converts a level name to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", level)
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
