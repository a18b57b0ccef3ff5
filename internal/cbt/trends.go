package cbt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/attune-dev/attune/pkg/affect"
)

// trendThreshold is the minimum adjacent-step delta worth reporting.
const trendThreshold = 0.1

// frequentShare is the fraction of history an emotion must occupy to count
// as a recurring pattern.
const frequentShare = 0.3

// PatternAnalysis summarizes recurring emotions and directional trends over
// a session's analysis history.
type PatternAnalysis struct {
	Patterns        []string `json:"patterns"`
	Trends          []string `json:"trends"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzePatterns inspects a session's snapshot history, oldest first.
// Fewer than two entries yields a fixed "not enough data" result rather than
// an error; trend detection is meaningless on a single point.
func AnalyzePatterns(history []affect.Snapshot) PatternAnalysis {
	if len(history) < 2 {
		return PatternAnalysis{
			Patterns:        []string{"Not enough data yet."},
			Trends:          []string{"More observations are needed."},
			Recommendations: []string{"Keep recording your emotions regularly."},
		}
	}

	var out PatternAnalysis

	last := history[len(history)-1]
	prev := history[len(history)-2]

	if d := last.VAD.Valence - prev.VAD.Valence; d > trendThreshold {
		out.Trends = append(out.Trends, "Positive mood is gradually improving.")
		out.Recommendations = append(out.Recommendations, "Keep up the activities that support this positive change.")
	} else if d < -trendThreshold {
		out.Trends = append(out.Trends, "Negative mood is worsening.")
		out.Recommendations = append(out.Recommendations, "Apply cognitive restructuring techniques more actively.")
	}

	if d := last.VAD.Arousal - prev.VAD.Arousal; d > trendThreshold {
		out.Trends = append(out.Trends, "Emotional arousal has increased.")
		out.Recommendations = append(out.Recommendations, "Practice calming techniques regularly.")
	}

	if d := last.VAD.Dominance - prev.VAD.Dominance; d > trendThreshold {
		out.Trends = append(out.Trends, "Confidence has increased.")
		out.Recommendations = append(out.Recommendations, "Continue the activities that build self-efficacy.")
	}

	if frequent := frequentEmotions(history); len(frequent) > 0 {
		out.Patterns = append(out.Patterns, fmt.Sprintf("Frequently occurring emotions: %s", strings.Join(frequent, ", ")))
	}

	return out
}

// frequentEmotions returns the emotions present in more than frequentShare of
// the history, sorted alphabetically for stable output.
func frequentEmotions(history []affect.Snapshot) []string {
	counts := make(map[affect.EmotionTag]int)
	for _, h := range history {
		counts[h.Emotion]++
	}

	threshold := float64(len(history)) * frequentShare
	var frequent []string
	for emotion, count := range counts {
		if float64(count) > threshold {
			frequent = append(frequent, string(emotion))
		}
	}
	sort.Strings(frequent)
	return frequent
}
