// Package affect defines the platform-agnostic affect data contract shared by
// the fusion engine, the classifiers, and the HTTP layer. All scores live in
// the Valence-Arousal-Dominance (VAD) space on the closed interval [0,1].
package affect

import "time"

// VADScore is a point in Valence-Arousal-Dominance space.
// Valence measures positivity, Arousal activation, Dominance sense of control.
type VADScore struct {
	Valence   float64 `json:"valence"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
}

// Neutral is the VAD midpoint used when no modality contributes a signal.
func Neutral() VADScore {
	return VADScore{Valence: 0.5, Arousal: 0.5, Dominance: 0.5}
}

// Clamp returns a copy of the score with every dimension forced into [0,1].
// NaN collapses to the neutral midpoint of the affected dimension.
func (v VADScore) Clamp() VADScore {
	return VADScore{
		Valence:   ClampUnit(v.Valence),
		Arousal:   ClampUnit(v.Arousal),
		Dominance: ClampUnit(v.Dominance),
	}
}

// ClampUnit forces x into [0,1]. NaN maps to 0.5 so that upstream detector
// glitches degrade to neutral instead of poisoning downstream arithmetic.
func ClampUnit(x float64) float64 {
	switch {
	case x != x: // NaN
		return 0.5
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// EmotionTag is the closed set of primary emotion labels produced by
// classification. Free-text secondary descriptors are plain strings.
type EmotionTag string

// Primary emotion tags.
const (
	EmotionHappy     EmotionTag = "happy"
	EmotionSad       EmotionTag = "sad"
	EmotionAngry     EmotionTag = "angry"
	EmotionExcited   EmotionTag = "excited"
	EmotionSurprised EmotionTag = "surprised"
	EmotionCalm      EmotionTag = "calm"
	EmotionNeutral   EmotionTag = "neutral"
)

// RiskLevel is the discrete risk tier assigned to a fused affect estimate.
type RiskLevel string

// Risk tiers, ordered from least to most severe.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Severity returns an ordinal rank for tier comparison (low < medium < high).
func (r RiskLevel) Severity() int {
	switch r {
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// RiskAssessment is the full output of risk evaluation: the tier, the
// human-readable reasons each threshold was crossed, and the suggested actions.
type RiskAssessment struct {
	Level   RiskLevel `json:"risk_level"`
	Signals []string  `json:"signals"`
	Actions []string  `json:"actions"`
}

// FusedAnalysis is the integrated result of a multimodal analysis pass.
// It is derived per request and never persisted as-is; Snapshot captures the
// durable subset.
type FusedAnalysis struct {
	OverallVAD        VADScore       `json:"overallVAD"`
	Confidence        float64        `json:"confidence"`
	PrimaryEmotion    EmotionTag     `json:"primaryEmotion"`
	SecondaryEmotions []string       `json:"secondaryEmotions"`
	Analysis          ModalitySet    `json:"analysis"`
	Recommendations   []string       `json:"recommendations"`
	RiskLevel         RiskLevel      `json:"riskLevel"`
	Risk              RiskAssessment `json:"risk"`
}

// Snapshot is the persisted trace of one analysis: enough to drive
// trend and pattern detection without storing raw modality payloads.
type Snapshot struct {
	Timestamp  time.Time  `json:"timestamp"`
	Emotion    EmotionTag `json:"emotion"`
	VAD        VADScore   `json:"vad"`
	Confidence float64    `json:"confidence"`
	Risk       RiskLevel  `json:"risk"`
}
