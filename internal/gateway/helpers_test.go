package gateway

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/attune-dev/attune/internal/cbt"
	"github.com/attune-dev/attune/internal/engine"
	"github.com/attune-dev/attune/internal/history"
	"github.com/attune-dev/attune/pkg/affect"
)

// fakeEngine is a canned-response engine for handler tests.
type fakeEngine struct {
	analysis   affect.FusedAnalysis
	analyzeErr error
	strategy   cbt.Strategy
	chatReply  engine.ChatReply
	chatErr    error
	patterns   cbt.PatternAnalysis
}

func (f *fakeEngine) Analyze(_ context.Context, _ string, _ affect.ModalitySet) (affect.FusedAnalysis, error) {
	return f.analysis, f.analyzeErr
}

func (f *fakeEngine) Feedback(_ context.Context, _ string, _ affect.VADScore, _ string) (cbt.Strategy, error) {
	return f.strategy, nil
}

func (f *fakeEngine) Chat(_ context.Context, _, _ string) (engine.ChatReply, error) {
	return f.chatReply, f.chatErr
}

func (f *fakeEngine) Trends(_ context.Context, _ string) (cbt.PatternAnalysis, error) {
	return f.patterns, nil
}

// newTestGateway builds a Gateway over a fresh in-memory store with auth
// disabled unless cfg says otherwise.
func newTestGateway(t *testing.T, cfg Config, eng Engine) (*Gateway, history.Store) {
	t.Helper()
	store := history.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, eng, store, "test-model", logger), store
}
