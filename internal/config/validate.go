package config

import (
	"errors"
	"fmt"
)

// Validate checks the structural validity of a Config. All problems are
// reported at once via errors.Join so a broken config can be fixed in one
// pass. An invalid fusion weight table aborts startup; it is never corrected
// silently.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("config: logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: logging.format %q is not one of text, json", cfg.Logging.Format))
	}

	switch cfg.History.Backend {
	case "", "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("config: history.backend %q is not one of memory, sqlite", cfg.History.Backend))
	}
	if cfg.History.BusyTimeout < 0 {
		errs = append(errs, errors.New("config: history.busy_timeout must be non-negative"))
	}

	switch cfg.Provider.Backend {
	case "", "openai", "openai_compatible":
	default:
		errs = append(errs, fmt.Errorf("config: provider.backend %q is not one of openai, openai_compatible", cfg.Provider.Backend))
	}

	if cfg.Fusion.Weights != nil {
		if err := cfg.Fusion.Weights.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("config: fusion.weights: %w", err))
		}
	}

	if cfg.Context.SafetyMargin < 0 || cfg.Context.SafetyMargin >= 1 {
		errs = append(errs, errors.New("config: context.safety_margin must be in [0,1)"))
	}
	if cfg.Context.MaxTokens < 0 {
		errs = append(errs, errors.New("config: context.max_tokens must be non-negative"))
	}

	if cfg.CBT.Elaborate && cfg.Provider.Backend == "" {
		errs = append(errs, errors.New("config: cbt.elaborate requires a provider backend"))
	}

	if cfg.Retention.Enabled && cfg.Retention.MaxIdle <= 0 {
		errs = append(errs, errors.New("config: retention.max_idle must be positive when retention is enabled"))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("config: telemetry.endpoint is required when telemetry is enabled"))
	}
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, errors.New("config: telemetry.sample_ratio must be in [0,1]"))
	}

	return errors.Join(errs...)
}
