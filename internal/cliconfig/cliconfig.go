// Package cliconfig loads CLI configuration from a profile file and
// environment variables.
package cliconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Static errors for configuration validation.
var (
	// ErrBadLogLevel is returned for a log level outside debug/info/warn/error.
	ErrBadLogLevel = errors.New("cliconfig: log_level must be one of debug, info, warn, error")
	// ErrBadLogFormat is returned for a log format other than text or json.
	ErrBadLogFormat = errors.New("cliconfig: log_format must be text or json")
	// ErrNegativeDuration is returned when a configured duration is negative.
	ErrNegativeDuration = errors.New("cliconfig: durations must not be negative")
)

// Duration is a time.Duration that reads Go duration strings ("90s", "5m")
// from both YAML profiles and environment variables.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText implements encoding.TextUnmarshaler, which go-envconfig
// picks up for environment values.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("cliconfig: invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the CLI configuration. Precedence is flags over environment
// variables over the profile file; the env tags carry "overwrite" so a set
// variable replaces a profile value. Zero durations defer to the client
// library defaults.
type Config struct {
	// API settings
	APIKey  string `yaml:"api_key" env:"GETMOTION_API_KEY, overwrite" json:"-"` // Masked in String
	BaseURL string `yaml:"base_url" env:"GETMOTION_BASE_URL, overwrite" json:"base_url,omitempty"`

	// Request and wait timing
	Timeout      Duration `yaml:"timeout" env:"GETMOTION_TIMEOUT, overwrite" json:"timeout,omitempty"`
	WaitTimeout  Duration `yaml:"wait_timeout" env:"GETMOTION_WAIT_TIMEOUT, overwrite" json:"wait_timeout,omitempty"`
	PollInterval Duration `yaml:"poll_interval" env:"GETMOTION_POLL_INTERVAL, overwrite" json:"poll_interval,omitempty"`

	// Logging settings
	LogLevel  string `yaml:"log_level" env:"GETMOTION_LOG_LEVEL, overwrite" json:"log_level"`   // "debug", "info", "warn", "error"
	LogFormat string `yaml:"log_format" env:"GETMOTION_LOG_FORMAT, overwrite" json:"log_format"` // "json" or "text"
}

// DefaultPath returns the default profile location,
// ~/.config/getmotion/config.yaml, or an empty string when the home
// directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "getmotion", "config.yaml")
}

// Load reads the profile file and then overlays environment variables.
//
// When path is empty, GETMOTION_CONFIG names the profile, falling back to
// DefaultPath. A missing file is only an error when it was named
// explicitly, by argument or variable.
func Load(ctx context.Context, path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv("GETMOTION_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
		explicit = false
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cliconfig: parse %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// No profile is fine; everything has a default or comes from
			// the environment.
		default:
			return nil, fmt.Errorf("cliconfig: read %s: %w", path, err)
		}
	}

	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("cliconfig: %w", err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration for values no command could run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return ErrBadLogLevel
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return ErrBadLogFormat
	}
	if c.Timeout < 0 || c.WaitTimeout < 0 || c.PollInterval < 0 {
		return ErrNegativeDuration
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration. Logs go
// to stderr so command output on stdout stays clean. When LogFormat is
// "json", it outputs JSON logs suitable for scripting pipelines.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with the API key
// masked.
func (c *Config) String() string {
	key := ""
	if c.APIKey != "" {
		key = "***"
	}
	return fmt.Sprintf(
		"Config{APIKey: %s, BaseURL: %s, Timeout: %s, WaitTimeout: %s, PollInterval: %s, LogLevel: %s, LogFormat: %s}",
		key,
		c.BaseURL,
		c.Timeout.Std(),
		c.WaitTimeout.Std(),
		c.PollInterval.Std(),
		c.LogLevel,
		c.LogFormat,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
