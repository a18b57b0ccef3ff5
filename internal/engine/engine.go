// Package engine orchestrates the analysis pipeline: modality fusion,
// emotion and risk classification, strategy mapping, and budgeted
// conversational context for the counseling chat.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/attune-dev/attune/internal/cbt"
	"github.com/attune-dev/attune/internal/classify"
	ctxengine "github.com/attune-dev/attune/internal/context"
	"github.com/attune-dev/attune/internal/fusion"
	"github.com/attune-dev/attune/internal/history"
	"github.com/attune-dev/attune/internal/provider"
	"github.com/attune-dev/attune/pkg/affect"
)

// snapshotWindow is how many recent snapshots feed trend analysis and
// strategy elaboration.
const snapshotWindow = 20

// tracer emits spans for the pipeline entry points. With no tracer provider
// installed this is the no-op global and costs nothing.
var tracer = otel.Tracer("github.com/attune-dev/attune/internal/engine")

// Engine wires the pure analysis stages to the stored session state.
// It is safe for concurrent use; per-request computation is pure and the
// store serialises its own access.
type Engine struct {
	fusion    *fusion.Engine
	mapper    *cbt.Mapper
	context   *ctxengine.Manager
	store     history.Store
	generator provider.Generator
	logger    *slog.Logger
	now       func() time.Time
}

// Options configures optional Engine collaborators.
type Options struct {
	// Generator powers the chat and strategy elaboration. Nil disables
	// generation; chat falls back to deterministic responses.
	Generator provider.Generator
	Logger    *slog.Logger
	Now       func() time.Time
}

// New creates an Engine. fusionEngine, mapper, contextManager, and store are
// required.
func New(fusionEngine *fusion.Engine, mapper *cbt.Mapper, contextManager *ctxengine.Manager, store history.Store, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		fusion:    fusionEngine,
		mapper:    mapper,
		context:   contextManager,
		store:     store,
		generator: opts.Generator,
		logger:    logger,
		now:       now,
	}
}

// Analyze runs the full multimodal pipeline for one request and records a
// snapshot for the session. An empty sessionID analyzes without persisting.
func (e *Engine) Analyze(ctx context.Context, sessionID string, set affect.ModalitySet) (affect.FusedAnalysis, error) {
	_, span := tracer.Start(ctx, "engine.Analyze")
	defer span.End()

	fused := e.fusion.Fuse(set)

	primary := classify.PrimaryEmotion(fused.VAD)
	risk := classify.AssessRisk(fused.VAD)

	analysis := affect.FusedAnalysis{
		OverallVAD:        fused.VAD,
		Confidence:        fused.Confidence,
		PrimaryEmotion:    primary,
		SecondaryEmotions: classify.SecondaryEmotions(fused.VAD, set),
		Analysis:          set,
		Recommendations:   classify.Recommend(fused.VAD, risk.Level, fused.Channels),
		RiskLevel:         risk.Level,
		Risk:              risk,
	}

	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("affect.emotion", string(primary)),
		attribute.String("affect.risk", string(risk.Level)),
		attribute.Float64("affect.confidence", fused.Confidence),
	)

	if sessionID != "" {
		snap := affect.Snapshot{
			Timestamp:  e.now(),
			Emotion:    primary,
			VAD:        fused.VAD,
			Confidence: fused.Confidence,
			Risk:       risk.Level,
		}
		if err := e.store.AppendSnapshot(sessionID, snap); err != nil {
			return affect.FusedAnalysis{}, fmt.Errorf("record snapshot: %w", err)
		}
	}

	e.logger.Info("analysis complete",
		"session_id", sessionID,
		"emotion", primary,
		"risk", risk.Level,
		"confidence", fused.Confidence,
	)
	return analysis, nil
}

// Feedback derives a CBT strategy for the session's current state, feeding
// the recent snapshot history into the mapper.
func (e *Engine) Feedback(ctx context.Context, sessionID string, vad affect.VADScore, freeText string) (cbt.Strategy, error) {
	vad = vad.Clamp()

	snaps, err := e.store.RecentSnapshots(sessionID, snapshotWindow)
	if err != nil {
		return cbt.Strategy{}, fmt.Errorf("load snapshots: %w", err)
	}

	tag := classify.PrimaryEmotion(vad)
	return e.mapper.Strategy(ctx, tag, vad, freeText, snaps), nil
}

// Trends analyzes the session's snapshot history for recurring emotions and
// directional changes.
func (e *Engine) Trends(_ context.Context, sessionID string) (cbt.PatternAnalysis, error) {
	snaps, err := e.store.RecentSnapshots(sessionID, 0)
	if err != nil {
		return cbt.PatternAnalysis{}, fmt.Errorf("load snapshots: %w", err)
	}
	return cbt.AnalyzePatterns(snaps), nil
}
