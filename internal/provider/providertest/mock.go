// Package providertest provides test helpers for the provider package.
package providertest

import (
	"context"
	"sync"

	"github.com/attune-dev/attune/internal/provider"
)

// MockGenerator is a configurable test double for provider.Generator.
// Set the Func fields to control behavior. Unset funcs panic on call.
// All methods are safe for concurrent use.
type MockGenerator struct {
	GenerateFunc    func(ctx context.Context, prompt string) (string, error)
	ModelNameFunc   func() string
	HealthCheckFunc func(ctx context.Context) error

	mu            sync.Mutex
	GenerateCalls int
	HealthCalls   int
	Prompts       []string
}

// Generate delegates to GenerateFunc, recording the call and its prompt.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.GenerateCalls++
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	return m.GenerateFunc(ctx, prompt)
}

// ModelName delegates to ModelNameFunc, defaulting to "mock" when unset.
func (m *MockGenerator) ModelName() string {
	if m.ModelNameFunc == nil {
		return "mock"
	}
	return m.ModelNameFunc()
}

// HealthCheck delegates to HealthCheckFunc and tracks call count.
func (m *MockGenerator) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	m.HealthCalls++
	m.mu.Unlock()
	return m.HealthCheckFunc(ctx)
}

// LastPrompt returns the most recent prompt passed to Generate, or "".
func (m *MockGenerator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}

// Interface guard.
var _ provider.Generator = (*MockGenerator)(nil)
