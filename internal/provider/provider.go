// Package provider defines the contract for external text-generation
// backends. Concrete implementations live under modules/provider and are
// selected by configuration at startup.
package provider

import "context"

// Generator is the interface for requesting generated text from a model.
// Implementations must honor ctx cancellation and deadlines. Callers always
// carry a deterministic fallback, so a Generator error degrades a feature
// rather than failing the request.
type Generator interface {
	// Generate sends a prompt and returns the model's full text response.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the identifier of the underlying model.
	ModelName() string
}

// HealthChecker is an optional interface implementations may provide to
// support active probing from the status endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
