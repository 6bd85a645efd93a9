// Package config loads and validates hotline configuration from file,
// environment variables, and defaults.
package config

import "errors"

// Default values applied when neither the config file nor the environment
// sets a key.
const (
	// DefaultEngineMaxFileSize bounds analyzed documents at 4 MiB.
	DefaultEngineMaxFileSize = 4 << 20

	// DefaultSessionTraceCapacity is the retention bound of the session
	// trace ring.
	DefaultSessionTraceCapacity = 256

	// DefaultObservabilityLogLevel is the minimum slog severity.
	DefaultObservabilityLogLevel = "info"

	// DefaultObservabilityShutdownTimeoutSec bounds telemetry flush on exit.
	DefaultObservabilityShutdownTimeoutSec = 5
)

// Config is the top-level configuration struct for hotline.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Engine        EngineConfig        `mapstructure:"engine"`
	Policy        PolicyConfig        `mapstructure:"policy"`
	Session       SessionConfig       `mapstructure:"session"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// EngineConfig holds analysis engine knobs.
type EngineConfig struct {
	MaxFileSize int `mapstructure:"max_file_size"`
}

// PolicyConfig holds the rude-edit policy source.
type PolicyConfig struct {
	// Path is an optional policy overlay file. Empty uses built-in defaults.
	Path string `mapstructure:"path"`
}

// SessionConfig holds live-edit session settings.
type SessionConfig struct {
	// Tag labels the session in trace records and archives.
	Tag string `mapstructure:"tag"`

	// TraceCapacity bounds the in-memory trace ring.
	TraceCapacity int `mapstructure:"trace_capacity"`

	// ArchivePath, when set, receives the LZ4 trace archive on session end.
	ArchivePath string `mapstructure:"archive_path"`

	// DiagAddr, when set, serves /healthz, /readyz, and /metrics.
	DiagAddr string `mapstructure:"diag_addr"`
}

// ObservabilityConfig holds telemetry and logging settings.
type ObservabilityConfig struct {
	Environment        string `mapstructure:"environment"`
	OTLPEndpoint       string `mapstructure:"otlp_endpoint"`
	OTLPHeaders        string `mapstructure:"otlp_headers"`
	OTLPInsecure       bool   `mapstructure:"otlp_insecure"`
	LogLevel           string `mapstructure:"log_level"`
	LogJSON            bool   `mapstructure:"log_json"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidMaxFileSize indicates the engine size bound is not positive.
	ErrInvalidMaxFileSize = errors.New("engine.max_file_size must be positive")
	// ErrInvalidTraceCapacity indicates the trace ring bound is not positive.
	ErrInvalidTraceCapacity = errors.New("session.trace_capacity must be positive")
	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("observability.log_level must be one of debug, info, warn, error")
	// ErrInvalidShutdownTimeout indicates the flush timeout is not positive.
	ErrInvalidShutdownTimeout = errors.New("observability.shutdown_timeout_sec must be positive")
)

// validLogLevels is the accepted observability.log_level vocabulary.
var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Engine.MaxFileSize <= 0 {
		return ErrInvalidMaxFileSize
	}

	if c.Session.TraceCapacity <= 0 {
		return ErrInvalidTraceCapacity
	}

	if _, ok := validLogLevels[c.Observability.LogLevel]; !ok {
		return ErrInvalidLogLevel
	}

	if c.Observability.ShutdownTimeoutSec <= 0 {
		return ErrInvalidShutdownTimeout
	}

	return nil
}
