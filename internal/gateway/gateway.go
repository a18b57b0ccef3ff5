// Package gateway exposes the analysis engine over HTTP: analysis, feedback,
// chat, trends, session administration, health, and metrics endpoints.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/attune-dev/attune/internal/cbt"
	"github.com/attune-dev/attune/internal/engine"
	"github.com/attune-dev/attune/internal/history"
	"github.com/attune-dev/attune/pkg/affect"
)

// Engine is the analysis surface the gateway depends on. *engine.Engine
// satisfies it; tests substitute a mock.
type Engine interface {
	Analyze(ctx context.Context, sessionID string, set affect.ModalitySet) (affect.FusedAnalysis, error)
	Feedback(ctx context.Context, sessionID string, vad affect.VADScore, freeText string) (cbt.Strategy, error)
	Chat(ctx context.Context, sessionID, message string) (engine.ChatReply, error)
	Trends(ctx context.Context, sessionID string) (cbt.PatternAnalysis, error)
}

// Interface guard: the real engine must satisfy the gateway contract.
var _ Engine = (*engine.Engine)(nil)

// Gateway is the HTTP server wrapping the engine and session store.
type Gateway struct {
	config    Config
	engine    Engine
	store     history.Store
	metrics   *Metrics
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time

	// modelName is reported by /status; empty when generation is disabled.
	modelName string
}

// New creates a Gateway.
func New(cfg Config, eng Engine, store history.Store, modelName string, logger *slog.Logger) *Gateway {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		config:    cfg,
		engine:    eng,
		store:     store,
		metrics:   NewMetrics(),
		logger:    logger,
		modelName: modelName,
	}
}

// Metrics exposes the gateway's counters, mainly for tests.
func (g *Gateway) Metrics() *Metrics {
	return g.metrics
}

// Start binds the listener and serves in a background goroutine.
func (g *Gateway) Start() error {
	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully with the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
