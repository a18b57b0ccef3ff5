// Package openaicompat provides a text generator for any backend that
// implements the OpenAI chat completions interface (Mistral, Groq, DeepSeek,
// vLLM, LiteLLM, etc.) via a configurable base_url.
package openaicompat

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/attune-dev/attune/internal/provider"
)

// Generator is an OpenAI-compatible chat completions client.
type Generator struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// Compile-time interface guards.
var (
	_ provider.Generator     = (*Generator)(nil)
	_ provider.HealthChecker = (*Generator)(nil)
)

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
		// Response-header timeout instead of a global client timeout, so
		// slow generations are bounded by the caller's context.
		client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: cfg.Timeout,
			},
		},
		logger: logger,
	}, nil
}

// Generate implements provider.Generator.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.complete(ctx, oaiRequest{
		Model:     g.config.Model,
		Messages:  []oaiMessage{{Role: "user", Content: prompt}},
		MaxTokens: g.config.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", provider.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName implements provider.Generator.
func (g *Generator) ModelName() string {
	return g.config.Model
}

// HealthCheck implements provider.HealthChecker with a minimal one-token
// request.
func (g *Generator) HealthCheck(ctx context.Context) error {
	_, err := g.complete(ctx, oaiRequest{
		Model:     g.config.Model,
		Messages:  []oaiMessage{{Role: "user", Content: "ping"}},
		MaxTokens: 1,
	})
	return err
}
