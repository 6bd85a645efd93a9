package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotline-dev/hotline/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hotline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// TestLoadConfig_Defaults verifies a missing config file yields the
// documented defaults.
func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultEngineMaxFileSize, cfg.Engine.MaxFileSize)
	assert.Equal(t, config.DefaultSessionTraceCapacity, cfg.Session.TraceCapacity)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, config.DefaultObservabilityShutdownTimeoutSec, cfg.Observability.ShutdownTimeoutSec)
}

// TestLoadConfig_FileOverridesDefaults verifies file values win over
// defaults while unset keys keep theirs.
func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
engine:
  max_file_size: 1024
session:
  tag: pair-review
  trace_capacity: 16
observability:
  log_level: debug
  log_json: true
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Engine.MaxFileSize)
	assert.Equal(t, "pair-review", cfg.Session.Tag)
	assert.Equal(t, 16, cfg.Session.TraceCapacity)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.LogJSON)
	assert.Equal(t, config.DefaultObservabilityShutdownTimeoutSec, cfg.Observability.ShutdownTimeoutSec)
}

// TestLoadConfig_InvalidValues verifies validation rejects out-of-range
// settings with the matching sentinel.
func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "non-positive max file size",
			content: "engine:\n  max_file_size: 0\n",
			wantErr: config.ErrInvalidMaxFileSize,
		},
		{
			name:    "non-positive trace capacity",
			content: "session:\n  trace_capacity: -1\n",
			wantErr: config.ErrInvalidTraceCapacity,
		},
		{
			name:    "unknown log level",
			content: "observability:\n  log_level: loud\n",
			wantErr: config.ErrInvalidLogLevel,
		},
		{
			name:    "non-positive shutdown timeout",
			content: "observability:\n  shutdown_timeout_sec: 0\n",
			wantErr: config.ErrInvalidShutdownTimeout,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfigFile(t, tc.content))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

// TestLoadConfig_MalformedYAML verifies unparsable config files fail.
func TestLoadConfig_MalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfigFile(t, "engine: [broken\n"))
	assert.Error(t, err)
}

// TestConfig_SlogLevel verifies the level-name mapping.
func TestConfig_SlogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tc := range tests {
		cfg := config.Config{}
		cfg.Observability.LogLevel = tc.name
		assert.Equal(t, tc.want, cfg.SlogLevel(), tc.name)
	}
}
