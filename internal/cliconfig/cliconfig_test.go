package cliconfig

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory and clears every GETMOTION
// variable so tests only see what they set themselves.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, v := range []string{
		"GETMOTION_CONFIG",
		"GETMOTION_API_KEY",
		"GETMOTION_BASE_URL",
		"GETMOTION_TIMEOUT",
		"GETMOTION_WAIT_TIMEOUT",
		"GETMOTION_POLL_INTERVAL",
		"GETMOTION_LOG_LEVEL",
		"GETMOTION_LOG_FORMAT",
	} {
		os.Unsetenv(v)
	}
}

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)

	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Timeout.Std())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_Profile(t *testing.T) {
	isolate(t)

	path := writeProfile(t, `
api_key: profile-key
base_url: https://staging.getmotion.io
timeout: 90s
wait_timeout: 20m
poll_interval: 5s
log_level: debug
log_format: json
`)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "profile-key", cfg.APIKey)
	assert.Equal(t, "https://staging.getmotion.io", cfg.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.Timeout.Std())
	assert.Equal(t, 20*time.Minute, cfg.WaitTimeout.Std())
	assert.Equal(t, 5*time.Second, cfg.PollInterval.Std())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Precedence(t *testing.T) {
	t.Run("environment overrides the profile", func(t *testing.T) {
		isolate(t)
		path := writeProfile(t, "base_url: https://profile.example\nwait_timeout: 1m\n")
		t.Setenv("GETMOTION_BASE_URL", "https://env.example")
		t.Setenv("GETMOTION_WAIT_TIMEOUT", "2m")

		cfg, err := Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "https://env.example", cfg.BaseURL)
		assert.Equal(t, 2*time.Minute, cfg.WaitTimeout.Std())
	})

	t.Run("profile fills what the environment leaves", func(t *testing.T) {
		isolate(t)
		path := writeProfile(t, "base_url: https://profile.example\n")
		t.Setenv("GETMOTION_API_KEY", "env-key")

		cfg, err := Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.APIKey)
		assert.Equal(t, "https://profile.example", cfg.BaseURL)
	})

	t.Run("GETMOTION_CONFIG names the profile", func(t *testing.T) {
		isolate(t)
		path := writeProfile(t, "api_key: from-named-profile\n")
		t.Setenv("GETMOTION_CONFIG", path)

		cfg, err := Load(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, "from-named-profile", cfg.APIKey)
	})
}

func TestLoad_MissingProfile(t *testing.T) {
	t.Run("explicit path must exist", func(t *testing.T) {
		isolate(t)
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("explicit env path must exist", func(t *testing.T) {
		isolate(t)
		t.Setenv("GETMOTION_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load(context.Background(), "")
		require.Error(t, err)
	})

	t.Run("absent default profile is fine", func(t *testing.T) {
		isolate(t)
		_, err := Load(context.Background(), "")
		require.NoError(t, err)
	})
}

func TestLoad_BadValues(t *testing.T) {
	t.Run("unparseable duration", func(t *testing.T) {
		isolate(t)
		t.Setenv("GETMOTION_TIMEOUT", "ninety seconds")
		_, err := Load(context.Background(), "")
		require.Error(t, err)
	})

	t.Run("unknown log level", func(t *testing.T) {
		isolate(t)
		t.Setenv("GETMOTION_LOG_LEVEL", "loud")
		_, err := Load(context.Background(), "")
		assert.ErrorIs(t, err, ErrBadLogLevel)
	})

	t.Run("unknown log format", func(t *testing.T) {
		isolate(t)
		path := writeProfile(t, "log_format: xml\n")
		_, err := Load(context.Background(), path)
		assert.ErrorIs(t, err, ErrBadLogFormat)
	})

	t.Run("negative duration", func(t *testing.T) {
		isolate(t)
		path := writeProfile(t, "poll_interval: -5s\n")
		_, err := Load(context.Background(), path)
		assert.ErrorIs(t, err, ErrNegativeDuration)
	})
}

func TestNewLogger_Levels(t *testing.T) {
	ctx := context.Background()

	quiet := (&Config{LogLevel: "info", LogFormat: "text"}).NewLogger()
	assert.False(t, quiet.Enabled(ctx, slog.LevelDebug))
	assert.True(t, quiet.Enabled(ctx, slog.LevelInfo))

	verbose := (&Config{LogLevel: "debug", LogFormat: "json"}).NewLogger()
	assert.True(t, verbose.Enabled(ctx, slog.LevelDebug))
}

func TestString_MasksAPIKey(t *testing.T) {
	cfg := &Config{APIKey: "secret-key", BaseURL: "https://api.getmotion.io"}
	s := cfg.String()
	assert.NotContains(t, s, "secret-key")
	assert.Contains(t, s, "***")
}
