// Package main is the entry point for the attune CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/attune-dev/attune/internal/cbt"
	"github.com/attune-dev/attune/internal/config"
	ctxengine "github.com/attune-dev/attune/internal/context"
	"github.com/attune-dev/attune/internal/engine"
	"github.com/attune-dev/attune/internal/fusion"
	"github.com/attune-dev/attune/internal/gateway"
	"github.com/attune-dev/attune/internal/provider"
	"github.com/attune-dev/attune/internal/retention"
	"github.com/attune-dev/attune/internal/telemetry"
	openaiprov "github.com/attune-dev/attune/modules/provider/openai"
	"github.com/attune-dev/attune/modules/provider/openaicompat"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "attune",
		Short:         "Multimodal emotion analysis and CBT counseling engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), startCmd(), configCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("attune %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the attune gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			if cfgPath == "" {
				resolved, err := resolveConfigPath()
				if err != nil {
					return err
				}
				cfgPath = resolved
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			return run(cfg)
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	return cmd
}

// run wires the full application from a validated config and blocks until
// a termination signal arrives.
func run(cfg *config.Config) error {
	logger := buildLogger(cfg.Logging)

	store, closeStore, err := buildStore(cfg.History, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	gen, err := buildGenerator(cfg.Provider, logger)
	if err != nil {
		return err
	}

	weights := fusion.DefaultWeights()
	if cfg.Fusion.Weights != nil {
		weights = *cfg.Fusion.Weights
	}
	fusionEngine := fusion.NewEngine(weights, logger)

	estimator := ctxengine.NewCharEstimator(0)
	contextManager := ctxengine.NewManager(estimator, cfg.Context, logger)

	var elaborator provider.Generator
	if cfg.CBT.Elaborate {
		elaborator = gen
	}
	mapper := cbt.NewMapper(elaborator, cfg.CBT.ElaborationTimeout, logger)

	eng := engine.New(fusionEngine, mapper, contextManager, store, engine.Options{
		Generator: gen,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		SampleRatio: cfg.Telemetry.SampleRatio,
	}, version, logger)
	if err != nil {
		return err
	}

	var scheduler *retention.Scheduler
	if cfg.Retention.Enabled {
		scheduler = retention.NewScheduler(logger)
		job := &retention.SessionPurgeJob{
			Store:        store,
			MaxIdle:      cfg.Retention.MaxIdle,
			Logger:       logger,
			ScheduleExpr: cfg.Retention.Schedule,
		}
		if err := scheduler.RegisterJob(job); err != nil {
			return err
		}
		if err := scheduler.Start(); err != nil {
			return err
		}
	}

	var modelName string
	if gen != nil {
		modelName = gen.ModelName()
	}

	gw := gateway.New(gateway.Config{
		Bind:            cfg.Gateway.Bind,
		Auth:            gateway.AuthConfig{BearerToken: cfg.Gateway.Auth.BearerToken},
		ReadTimeout:     cfg.Gateway.ReadTimeout,
		WriteTimeout:    cfg.Gateway.WriteTimeout,
		ShutdownTimeout: cfg.Gateway.ShutdownTimeout,
	}, eng, store, modelName, logger)

	if err := gw.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx := context.Background()
	if err := gw.Stop(shutdownCtx); err != nil {
		logger.Error("gateway shutdown error", "error", err)
	}
	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			logger.Error("scheduler shutdown error", "error", err)
		}
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}
	return nil
}

// buildLogger constructs the slog logger from the logging config.
func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// resolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/attune/attune.yaml → ./attune.yaml
func resolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "attune", "attune.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "attune", "attune.yaml"))
	}

	candidates = append(candidates, "attune.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

// buildGenerator constructs the configured generation backend. An empty
// backend disables generation and the engine falls back to deterministic
// replies.
func buildGenerator(cfg config.ProviderConfig, logger *slog.Logger) (provider.Generator, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "openai":
		var pc openaiprov.Config
		if !cfg.Settings.IsZero() {
			if err := cfg.Settings.Decode(&pc); err != nil {
				return nil, fmt.Errorf("provider settings: %w", err)
			}
		}
		return openaiprov.New(pc, logger)
	case "openai_compatible":
		var pc openaicompat.Config
		if !cfg.Settings.IsZero() {
			if err := cfg.Settings.Decode(&pc); err != nil {
				return nil, fmt.Errorf("provider settings: %w", err)
			}
		}
		return openaicompat.New(pc, logger)
	default:
		return nil, fmt.Errorf("unknown provider backend %q", cfg.Backend)
	}
}
