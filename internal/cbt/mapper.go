package cbt

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/attune-dev/attune/internal/provider"
	"github.com/attune-dev/attune/pkg/affect"
)

// defaultElaborationTimeout bounds the single elaboration attempt.
const defaultElaborationTimeout = 10 * time.Second

// tracer covers the generation-backed elaboration path, the one network
// suspension point in this package.
var tracer = otel.Tracer("github.com/attune-dev/attune/internal/cbt")

// adjustment is one VAD-driven refinement of a base strategy.
type adjustment struct {
	applies   func(affect.VADScore) bool
	focus     string
	technique string
}

// adjustments are evaluated in order and are cumulative: a state can trigger
// several at once. Each appends a technique and rewrites the focus suffix.
var adjustments = []adjustment{
	{func(v affect.VADScore) bool { return v.Arousal > 0.7 }, "calming and relaxation", "progressive muscle relaxation"},
	{func(v affect.VADScore) bool { return v.Arousal < 0.3 }, "activation and motivation", "behavioral activation"},
	{func(v affect.VADScore) bool { return v.Valence < 0.3 }, "positive reframing", "positive reframing"},
	{func(v affect.VADScore) bool { return v.Dominance > 0.7 }, "collaborative engagement", "collaborative goal setting"},
}

// Mapper derives a Strategy for a classified emotion. The generator is
// optional; when present, one elaboration attempt replaces the narrative
// sections, and any failure falls back to the deterministic table.
type Mapper struct {
	generator provider.Generator
	timeout   time.Duration
	logger    *slog.Logger
}

// NewMapper creates a Mapper. generator may be nil to disable elaboration.
// A non-positive timeout selects the default.
func NewMapper(generator provider.Generator, timeout time.Duration, logger *slog.Logger) *Mapper {
	if timeout <= 0 {
		timeout = defaultElaborationTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{generator: generator, timeout: timeout, logger: logger}
}

// Strategy builds the full strategy for one analysis: base table lookup,
// cumulative VAD adjustments, then the optional elaboration pass.
func (m *Mapper) Strategy(ctx context.Context, tag affect.EmotionTag, vad affect.VADScore, freeText string, history []affect.Snapshot) Strategy {
	s := Adjust(BaseFor(tag), vad)

	if m.generator == nil {
		return s
	}

	elaborated, err := m.elaborate(ctx, vad, freeText, history)
	if err != nil {
		m.logger.Warn("strategy elaboration failed, using base table",
			"emotion", tag,
			"error", err,
		)
		return s
	}

	// The narrative sections come from the elaboration as a unit; focus and
	// priority techniques stay deterministic.
	s.EmotionAssessment = elaborated.EmotionAssessment
	s.Cognitive = elaborated.Cognitive
	s.Behavioral = elaborated.Behavioral
	s.Progress = elaborated.Progress
	return s
}

// Adjust applies the VAD adjustment rules to a base strategy. The base focus
// is preserved as the prefix; each triggered rule appends its technique and
// rewrites the suffix, so the last triggered rule names the final focus.
func Adjust(s Strategy, vad affect.VADScore) Strategy {
	base := s.Focus
	for _, adj := range adjustments {
		if !adj.applies(vad) {
			continue
		}
		s.PriorityTechniques = append(s.PriorityTechniques, adj.technique)
		s.Focus = base + " - " + adj.focus
	}
	return s
}

// elaborate makes a single bounded generation attempt and parses the result.
// No retries: the caller's fallback is always available.
func (m *Mapper) elaborate(ctx context.Context, vad affect.VADScore, freeText string, history []affect.Snapshot) (Strategy, error) {
	ctx, span := tracer.Start(ctx, "cbt.Elaborate")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	prompt := ElaborationPrompt(vad, freeText, history)
	raw, err := m.generator.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return Strategy{}, err
	}
	s, err := ParseElaboration(raw)
	if err != nil {
		span.RecordError(err)
		return Strategy{}, err
	}
	return s, nil
}
