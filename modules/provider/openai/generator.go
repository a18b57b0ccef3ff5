// Package openai provides a text generator backed by the official OpenAI
// Responses API.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/attune-dev/attune/internal/provider"
)

// Generator calls the OpenAI Responses API.
type Generator struct {
	config Config
	client openai.Client
	logger *slog.Logger
}

// Compile-time interface guard.
var _ provider.Generator = (*Generator)(nil)

// New creates a Generator from cfg.
func New(cfg Config, logger *slog.Logger) (*Generator, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		config: cfg,
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		logger: logger,
	}, nil
}

// Generate implements provider.Generator with a small bounded retry on
// transient API failures.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	params := responses.ResponseNewParams{
		Model:           g.config.Model,
		MaxOutputTokens: openai.Int(g.config.MaxOutputTokens),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}

	resp, err := g.callWithRetry(ctx, params)
	if err != nil {
		return "", err
	}

	out := resp.OutputText()
	if out == "" {
		return "", provider.ErrEmptyResponse
	}
	return out, nil
}

// ModelName implements provider.Generator.
func (g *Generator) ModelName() string {
	return g.config.Model
}

// callWithRetry retries transient failures with a short backoff. Rate limits
// and server errors are worth one more try; everything else fails fast.
func (g *Generator) callWithRetry(ctx context.Context, params responses.ResponseNewParams) (*responses.Response, error) {
	const maxAttempts = 2
	waitTimes := []time.Duration{2 * time.Second}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := g.client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		lastErr = classifyError(err)

		if !provider.IsRetryable(lastErr) || attempt == maxAttempts-1 {
			return nil, lastErr
		}
		g.logger.Warn("openai request failed, retrying",
			"attempt", attempt+1,
			"error", err,
		)
		select {
		case <-time.After(waitTimes[attempt]):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("openai: all attempts failed: %w", lastErr)
}

// classifyError maps API errors onto the provider sentinels.
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests"):
		return fmt.Errorf("%w: %w", provider.ErrRateLimit, err)
	case strings.Contains(msg, "500") || strings.Contains(msg, "server_error") || strings.Contains(msg, "internal server error") || strings.Contains(msg, "503"):
		return fmt.Errorf("%w: %w", provider.ErrProviderDown, err)
	case strings.Contains(msg, "context_length") || strings.Contains(msg, "maximum context"):
		return fmt.Errorf("%w: %w", provider.ErrContextLength, err)
	default:
		return err
	}
}
