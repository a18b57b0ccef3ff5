package cbt

import (
	"testing"
	"time"

	"github.com/attune-dev/attune/pkg/affect"
)

func snap(emotion affect.EmotionTag, v, a, d float64) affect.Snapshot {
	return affect.Snapshot{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Emotion:   emotion,
		VAD:       affect.VADScore{Valence: v, Arousal: a, Dominance: d},
	}
}

func TestAnalyzePatterns_NotEnoughData(t *testing.T) {
	t.Parallel()

	for _, history := range [][]affect.Snapshot{nil, {snap(affect.EmotionSad, 0.2, 0.5, 0.5)}} {
		got := AnalyzePatterns(history)
		if len(got.Patterns) != 1 || got.Patterns[0] != "Not enough data yet." {
			t.Errorf("Patterns = %v", got.Patterns)
		}
		if len(got.Trends) != 1 || len(got.Recommendations) != 1 {
			t.Errorf("result = %+v, want single fixed entries", got)
		}
	}
}

func TestAnalyzePatterns_Trends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		prev, cur affect.Snapshot
		wantTrend string
	}{
		{
			"valence improving",
			snap(affect.EmotionSad, 0.3, 0.5, 0.5),
			snap(affect.EmotionNeutral, 0.5, 0.5, 0.5),
			"Positive mood is gradually improving.",
		},
		{
			"valence worsening",
			snap(affect.EmotionNeutral, 0.5, 0.5, 0.5),
			snap(affect.EmotionSad, 0.3, 0.5, 0.5),
			"Negative mood is worsening.",
		},
		{
			"arousal rising",
			snap(affect.EmotionNeutral, 0.5, 0.4, 0.5),
			snap(affect.EmotionSurprised, 0.5, 0.7, 0.5),
			"Emotional arousal has increased.",
		},
		{
			"dominance rising",
			snap(affect.EmotionNeutral, 0.5, 0.5, 0.4),
			snap(affect.EmotionNeutral, 0.5, 0.5, 0.7),
			"Confidence has increased.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AnalyzePatterns([]affect.Snapshot{tt.prev, tt.cur})
			if !containsString(got.Trends, tt.wantTrend) {
				t.Errorf("Trends = %v, want to contain %q", got.Trends, tt.wantTrend)
			}
			if len(got.Recommendations) == 0 {
				t.Error("each trend should carry a recommendation")
			}
		})
	}
}

func TestAnalyzePatterns_SmallDeltaIgnored(t *testing.T) {
	t.Parallel()

	got := AnalyzePatterns([]affect.Snapshot{
		snap(affect.EmotionNeutral, 0.50, 0.50, 0.50),
		snap(affect.EmotionNeutral, 0.55, 0.45, 0.55),
	})
	if len(got.Trends) != 0 {
		t.Errorf("Trends = %v, want none for sub-threshold deltas", got.Trends)
	}
}

func TestAnalyzePatterns_FrequentEmotions(t *testing.T) {
	t.Parallel()

	history := []affect.Snapshot{
		snap(affect.EmotionSad, 0.3, 0.5, 0.5),
		snap(affect.EmotionSad, 0.3, 0.5, 0.5),
		snap(affect.EmotionAngry, 0.2, 0.8, 0.5),
		snap(affect.EmotionAngry, 0.2, 0.8, 0.5),
		snap(affect.EmotionNeutral, 0.5, 0.5, 0.5),
	}

	got := AnalyzePatterns(history)
	// sad and angry each occupy 40% of history, above the 30% bar; neutral at
	// 20% does not. Output order is alphabetical.
	want := "Frequently occurring emotions: angry, sad"
	if !containsString(got.Patterns, want) {
		t.Errorf("Patterns = %v, want to contain %q", got.Patterns, want)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
