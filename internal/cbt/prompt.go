package cbt

import (
	"fmt"
	"strings"
	"time"

	"github.com/attune-dev/attune/pkg/affect"
)

// historyWindow is how many recent analyses the elaboration prompt includes.
const historyWindow = 5

// ElaborationPrompt renders the generation request for strategy elaboration.
// The output is deterministic for a given input so prompts can be asserted
// byte for byte in tests.
func ElaborationPrompt(vad affect.VADScore, freeText string, history []affect.Snapshot) string {
	var b strings.Builder

	b.WriteString(`You are a professional CBT (cognitive behavioral therapy) counselor. Provide personalized CBT feedback based on the following information.

**Current emotional state (VAD analysis):**
`)
	fmt.Fprintf(&b, "- Valence (positivity): %.2f (0-1, higher is more positive)\n", vad.Valence)
	fmt.Fprintf(&b, "- Arousal (activation): %.2f (0-1, higher is more activated)\n", vad.Arousal)
	fmt.Fprintf(&b, "- Dominance (sense of control): %.2f (0-1, higher is more confident)\n", vad.Dominance)

	b.WriteString("\n**Situational context:**\n")
	b.WriteString(freeText)
	b.WriteString("\n\n**Emotion history:**\n")
	b.WriteString(formatHistory(history))

	b.WriteString(`

Respond in the following JSON format:

{
  "emotionAssessment": {
    "currentState": "professional analysis of the current emotional state",
    "triggers": ["factors that triggered the emotion"],
    "patterns": ["recurring thought or behavior patterns"]
  },
  "cognitiveTechniques": {
    "technique": "name of a suitable CBT technique",
    "description": "detailed description of the technique",
    "exercises": ["concrete practice exercises"]
  },
  "behavioralStrategies": {
    "strategy": "behavior change strategy",
    "steps": ["step-by-step actions"],
    "expectedOutcome": "expected result"
  },
  "progressTracking": {
    "metrics": ["indicators to track"],
    "goals": ["short and long term goals"],
    "timeline": "expected time to reach the goals"
  }
}

When responding:
1. Interpret the VAD scores precisely and tailor the advice to them
2. Analyze the emotion history for underlying causes
3. Propose feasible, concrete behavioral strategies
4. Approach the situation gradually and systematically
5. Keep a positive, supportive tone
`)

	return b.String()
}

// formatHistory renders the last historyWindow snapshots, newest last, one
// line each as "- <timestamp>: <emotion> (V:.., A:.., D:..)".
func formatHistory(history []affect.Snapshot) string {
	if len(history) == 0 {
		return "No previous records."
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	lines := make([]string, len(history))
	for i, h := range history {
		lines[i] = fmt.Sprintf("- %s: %s (V:%.2f, A:%.2f, D:%.2f)",
			h.Timestamp.Format(time.RFC3339),
			h.Emotion,
			h.VAD.Valence,
			h.VAD.Arousal,
			h.VAD.Dominance,
		)
	}
	return strings.Join(lines, "\n")
}
