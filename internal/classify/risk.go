package classify

import "github.com/attune-dev/attune/pkg/affect"

// Fixed action lists keyed by tier. Immutable; callers receive copies.
var (
	highRiskActions = []string{
		"Seek professional help immediately",
		"Move to a safe environment",
		"Contact a trusted person",
	}
	mediumRiskActions = []string{
		"Try a slow deep-breathing technique",
		"Prepare your emergency contacts",
		"Consider scheduling a counseling session",
	}
	lowRiskActions = []string{
		"Keep monitoring your current state",
		"Practice a preventive coping technique",
	}
)

// AssessRisk evaluates the full threshold ladder and returns the most severe
// tier whose condition holds, together with a signal per crossed threshold.
//
// Unlike PrimaryEmotion, this is not first-match: every condition is checked
// so that the signal list names all contributing factors, and the highest
// tier wins.
func AssessRisk(vad affect.VADScore) affect.RiskAssessment {
	v, a, d := vad.Valence, vad.Arousal, vad.Dominance

	level := affect.RiskLow
	raise := func(to affect.RiskLevel) {
		if to.Severity() > level.Severity() {
			level = to
		}
	}

	var signals []string

	if v < 0.1 {
		signals = append(signals, "extremely low positivity")
		raise(affect.RiskHigh)
	}
	if v < 0.2 && a > 0.8 {
		signals = append(signals, "strongly negative state with high activation")
		raise(affect.RiskHigh)
	}
	if a > 0.9 {
		signals = append(signals, "extremely high emotional activation")
		raise(affect.RiskHigh)
	}
	if d < 0.2 {
		signals = append(signals, "extremely low sense of control")
		raise(affect.RiskHigh)
	}

	if v < 0.3 {
		if v >= 0.1 {
			signals = append(signals, "low positivity")
		}
		raise(affect.RiskMedium)
	}
	if a > 0.7 {
		if a <= 0.9 {
			signals = append(signals, "elevated emotional activation")
		}
		raise(affect.RiskMedium)
	}

	return affect.RiskAssessment{
		Level:   level,
		Signals: signals,
		Actions: actionsFor(level),
	}
}

// actionsFor returns a copy of the fixed action list for a tier.
func actionsFor(level affect.RiskLevel) []string {
	var src []string
	switch level {
	case affect.RiskHigh:
		src = highRiskActions
	case affect.RiskMedium:
		src = mediumRiskActions
	default:
		src = lowRiskActions
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
