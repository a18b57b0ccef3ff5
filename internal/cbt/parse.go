package cbt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Parse failures for elaboration responses. Callers treat any of these as a
// signal to fall back to the base table; nothing here reaches the user.
var (
	ErrNoJSON         = errors.New("response contains no JSON object")
	ErrIncompleteJSON = errors.New("elaboration JSON is missing required sections")
)

// elaborationEnvelope covers both accepted response shapes: the four strategy
// sections inline, or a {content} wrapper holding them as a nested string.
type elaborationEnvelope struct {
	Content string `json:"content"`

	EmotionAssessment *EmotionAssessment  `json:"emotionAssessment"`
	Cognitive         *CognitiveTechnique `json:"cognitiveTechniques"`
	Behavioral        *BehavioralStrategy `json:"behavioralStrategies"`
	Progress          *ProgressTracking   `json:"progressTracking"`
}

// ParseElaboration extracts a Strategy's narrative sections from a raw model
// response. The JSON object is located as the span from the first '{' to the
// last '}'. All four sections must parse and be non-empty, or the whole
// response is rejected; a partial parse never leaks into the result.
func ParseElaboration(raw string) (Strategy, error) {
	return parseElaboration(raw, true)
}

func parseElaboration(raw string, allowWrapper bool) (Strategy, error) {
	obj, ok := extractObject(raw)
	if !ok {
		return Strategy{}, ErrNoJSON
	}

	var env elaborationEnvelope
	if err := json.Unmarshal([]byte(obj), &env); err != nil {
		return Strategy{}, fmt.Errorf("decoding elaboration: %w", err)
	}

	if env.EmotionAssessment == nil || env.Cognitive == nil || env.Behavioral == nil || env.Progress == nil {
		// A {content} wrapper may carry the real object one level down.
		if allowWrapper && env.Content != "" {
			return parseElaboration(env.Content, false)
		}
		return Strategy{}, ErrIncompleteJSON
	}
	if env.EmotionAssessment.CurrentState == "" || env.Cognitive.Technique == "" {
		return Strategy{}, ErrIncompleteJSON
	}

	return Strategy{
		EmotionAssessment: *env.EmotionAssessment,
		Cognitive:         *env.Cognitive,
		Behavioral:        *env.Behavioral,
		Progress:          *env.Progress,
	}, nil
}

// extractObject returns the substring from the first '{' to the last '}'.
// Models routinely wrap JSON in prose or markdown fences; this strips both.
func extractObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
