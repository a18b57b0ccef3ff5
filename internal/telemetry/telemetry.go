// Package telemetry wires OpenTelemetry trace export. Tracing is optional;
// when disabled, the no-op global tracer stays in place and the hot path
// pays nothing.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// defaultServiceName is reported when the config does not override it.
const defaultServiceName = "attune"

// Config mirrors the telemetry section of the application config.
type Config struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

// Telemetry owns the tracer provider lifecycle.
type Telemetry struct {
	provider *sdktrace.TracerProvider
	logger   *slog.Logger
}

// Setup installs the global tracer provider. With Enabled false it returns
// a Telemetry whose Shutdown is a no-op.
func Setup(ctx context.Context, cfg Config, version string, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled {
		return &Telemetry{logger: logger}, nil
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(provider)

	logger.Info("telemetry enabled",
		"endpoint", cfg.Endpoint,
		"service", serviceName,
		"sample_ratio", ratio,
	)
	return &Telemetry{provider: provider, logger: logger}, nil
}

// Shutdown flushes pending spans. Safe to call when tracing is disabled.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := t.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry: shutdown: %w", err)
	}
	return nil
}
