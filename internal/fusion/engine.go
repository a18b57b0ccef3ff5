package fusion

import (
	"log/slog"

	"github.com/attune-dev/attune/pkg/affect"
)

// neutralConfidence is reported when no modality is present.
const neutralConfidence = 0.5

// Result is the output of one fusion pass.
type Result struct {
	VAD        affect.VADScore
	Confidence float64
	// Channels lists the modalities that contributed, in fixed order.
	Channels []affect.Modality
}

// Engine fuses zero to three normalized modality estimates into one VAD score
// plus an aggregate confidence. Fuse is a pure function of its input; the
// engine carries only the immutable weight table and is safe for concurrent
// use across sessions.
type Engine struct {
	weights Weights
	logger  *slog.Logger
}

// NewEngine creates an Engine with the given weight table. The table must
// already be validated; see Weights.Validate.
func NewEngine(weights Weights, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{weights: weights, logger: logger}
}

// Fuse combines the present modalities of set into a single VAD estimate.
//
// Per present channel, effective weight = base weight × channel confidence.
// Effective weights are renormalized to sum to 1 across present channels only,
// so a missing channel redistributes its share instead of dragging the result
// toward zero. With no channels at all, the neutral midpoint is returned with
// confidence 0.5 rather than an error.
func (e *Engine) Fuse(set affect.ModalitySet) Result {
	channels := normalizeSet(set)
	if len(channels) == 0 {
		return Result{VAD: affect.Neutral(), Confidence: neutralConfidence}
	}

	totalWeight := 0.0
	effective := make([]float64, len(channels))
	for i, ch := range channels {
		effective[i] = e.weights.For(ch.modality) * ch.confidence
		totalWeight += effective[i]
	}

	var fused affect.VADScore
	for i, ch := range channels {
		w := effective[i] / totalWeight
		fused.Valence += w * ch.vad.Valence
		fused.Arousal += w * ch.vad.Arousal
		fused.Dominance += w * ch.vad.Dominance
	}
	// Weighted mean of clamped inputs is already in range; clamp anyway to
	// absorb float drift at the boundaries.
	fused = fused.Clamp()

	result := Result{
		VAD:        fused,
		Confidence: aggregateConfidence(channels),
	}
	for _, ch := range channels {
		result.Channels = append(result.Channels, ch.modality)
	}

	e.logger.Debug("fused modalities",
		"channels", len(channels),
		"valence", fused.Valence,
		"arousal", fused.Arousal,
		"dominance", fused.Dominance,
		"confidence", result.Confidence,
	)
	return result
}

// aggregateConfidence is the mean channel confidence scaled by a
// modality-count bonus: avg × (0.7 + 0.3 × min(n/3, 1)). Corroboration across
// channels raises confidence; a single channel alone is capped below its own
// confidence so one weak detector cannot claim certainty.
func aggregateConfidence(channels []channel) float64 {
	sum := 0.0
	for _, ch := range channels {
		sum += ch.confidence
	}
	avg := sum / float64(len(channels))

	countRatio := float64(len(channels)) / 3.0
	if countRatio > 1 {
		countRatio = 1
	}
	return affect.ClampUnit(avg * (0.7 + 0.3*countRatio))
}
