// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for attune.
package config

import (
	"time"

	"gopkg.in/yaml.v3"

	ctxengine "github.com/attune-dev/attune/internal/context"
	"github.com/attune-dev/attune/internal/fusion"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	Logging   LoggingConfig   `yaml:"logging"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	History   HistoryConfig   `yaml:"history"`
	Provider  ProviderConfig  `yaml:"provider"`
	Fusion    FusionConfig    `yaml:"fusion"`
	Context   ContextConfig   `yaml:"context"`
	CBT       CBTConfig       `yaml:"cbt"`
	Retention RetentionConfig `yaml:"retention"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `yaml:"level"`

	// Format is "text" or "json". Defaults to text.
	Format string `yaml:"format"`
}

// GatewayConfig holds HTTP gateway configuration.
type GatewayConfig struct {
	Bind            string        `yaml:"bind"`
	Auth            AuthConfig    `yaml:"auth"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig configures authentication for the API endpoints.
type AuthConfig struct {
	BearerToken string `yaml:"bearer_token"`
}

// IsConfigured returns true if authentication is enabled.
func (a AuthConfig) IsConfigured() bool {
	return a.BearerToken != ""
}

// HistoryConfig selects and tunes the session store backend.
type HistoryConfig struct {
	// Backend is "memory" or "sqlite". Defaults to memory.
	Backend string `yaml:"backend"`

	// Path is the SQLite database file (sqlite backend only).
	Path string `yaml:"path"`

	// WAL enables WAL journal mode (sqlite backend only). Defaults to true.
	WAL *bool `yaml:"wal"`

	// BusyTimeout is the SQLite busy lock wait in milliseconds.
	BusyTimeout int `yaml:"busy_timeout"`
}

// ProviderConfig selects the generation backend. Settings holds the
// backend-specific block and is decoded by the chosen module.
type ProviderConfig struct {
	// Backend is "openai", "openai_compatible", or "" to disable generation.
	Backend string `yaml:"backend"`

	Settings yaml.Node `yaml:"settings"`
}

// FusionConfig tunes the modality fusion stage.
type FusionConfig struct {
	Weights *fusion.Weights `yaml:"weights"`
}

// ContextConfig aliases the context engine's own configuration block.
type ContextConfig = ctxengine.ContextConfig

// CBTConfig tunes strategy elaboration.
type CBTConfig struct {
	// Elaborate enables the generation-backed elaboration pass.
	Elaborate bool `yaml:"elaborate"`

	// ElaborationTimeout bounds the single elaboration attempt.
	ElaborationTimeout time.Duration `yaml:"elaboration_timeout"`
}

// RetentionConfig controls the idle-session purge job.
type RetentionConfig struct {
	// Enabled turns the scheduled purge on.
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression. Defaults to hourly.
	Schedule string `yaml:"schedule"`

	// MaxIdle is how long a session may be inactive before purging.
	MaxIdle time.Duration `yaml:"max_idle"`
}

// TelemetryConfig controls OpenTelemetry trace export.
type TelemetryConfig struct {
	// Enabled turns on the OTLP trace exporter.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP HTTP collector endpoint (host:port).
	Endpoint string `yaml:"endpoint"`

	// ServiceName overrides the reported service name.
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the trace sampling ratio in [0,1]. Defaults to 1.
	SampleRatio float64 `yaml:"sample_ratio"`
}
