package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/attune-dev/attune/internal/cbt"
	ctxengine "github.com/attune-dev/attune/internal/context"
	"github.com/attune-dev/attune/internal/fusion"
	"github.com/attune-dev/attune/internal/history"
	"github.com/attune-dev/attune/internal/provider"
	"github.com/attune-dev/attune/pkg/affect"
)

// newTestEngine builds an Engine over an in-memory store, a fixed clock, and
// an optional generator.
func newTestEngine(t *testing.T, gen provider.Generator) (*Engine, *history.InMemoryStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := history.NewInMemoryStore()

	eng := New(
		fusion.NewEngine(fusion.DefaultWeights(), logger),
		cbt.NewMapper(gen, time.Second, logger),
		ctxengine.NewManager(nil, ctxengine.ContextConfig{}, logger),
		store,
		Options{
			Generator: gen,
			Logger:    logger,
			Now:       func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		},
	)
	return eng, store
}

func TestAnalyze_FullPipeline(t *testing.T) {
	t.Parallel()

	eng, store := newTestEngine(t, nil)

	set := affect.ModalitySet{
		Facial: &affect.FacialResult{VAD: affect.VADScore{Valence: 0.2, Arousal: 0.8, Dominance: 0.4}, Confidence: 0.9},
		Text:   &affect.TextResult{VAD: affect.VADScore{Valence: 0.2, Arousal: 0.8, Dominance: 0.4}, Confidence: 0.7},
	}

	got, err := eng.Analyze(context.Background(), "s1", set)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got.PrimaryEmotion != affect.EmotionAngry {
		t.Errorf("PrimaryEmotion = %v, want angry", got.PrimaryEmotion)
	}
	if got.RiskLevel != affect.RiskMedium {
		t.Errorf("RiskLevel = %v, want medium (signals %v)", got.RiskLevel, got.Risk.Signals)
	}
	if got.RiskLevel != got.Risk.Level {
		t.Error("RiskLevel and Risk.Level disagree")
	}
	if len(got.Recommendations) == 0 {
		t.Error("expected recommendations for a medium-risk state")
	}
	if got.Confidence <= 0 || got.Confidence > 1 {
		t.Errorf("Confidence = %v", got.Confidence)
	}

	// One snapshot recorded for the session.
	snaps, err := store.RecentSnapshots("s1", 0)
	if err != nil {
		t.Fatalf("RecentSnapshots: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(snaps))
	}
	if snaps[0].Emotion != affect.EmotionAngry || snaps[0].Risk != affect.RiskMedium {
		t.Errorf("snapshot = %+v", snaps[0])
	}
	if !snaps[0].Timestamp.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("snapshot timestamp = %v, want fixed clock", snaps[0].Timestamp)
	}
}

func TestAnalyze_EmptySessionSkipsPersistence(t *testing.T) {
	t.Parallel()

	eng, store := newTestEngine(t, nil)

	got, err := eng.Analyze(context.Background(), "", affect.ModalitySet{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.OverallVAD != affect.Neutral() {
		t.Errorf("OverallVAD = %+v, want neutral", got.OverallVAD)
	}

	sessions, _ := store.Sessions()
	if len(sessions) != 0 {
		t.Errorf("sessions = %+v, want none", sessions)
	}
}

func TestFeedback_DeterministicStrategy(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, nil)

	// Out-of-range input must be clamped, then classified (valence 0 is sad)
	// and adjusted (low valence triggers reframing).
	got, err := eng.Feedback(context.Background(), "s1", affect.VADScore{Valence: -2, Arousal: 0.5, Dominance: 0.5}, "rough week")
	if err != nil {
		t.Fatalf("Feedback: %v", err)
	}
	if got.Focus != "Mood lifting - positive reframing" {
		t.Errorf("Focus = %q", got.Focus)
	}
}

func TestTrends(t *testing.T) {
	t.Parallel()

	eng, store := newTestEngine(t, nil)

	for _, v := range []float64{0.3, 0.5} {
		_ = store.AppendSnapshot("s1", affect.Snapshot{
			Emotion: affect.EmotionNeutral,
			VAD:     affect.VADScore{Valence: v, Arousal: 0.5, Dominance: 0.5},
		})
	}

	got, err := eng.Trends(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Trends: %v", err)
	}
	if len(got.Trends) == 0 {
		t.Error("expected an improving-mood trend")
	}
}

func TestTrends_EmptySession(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, nil)
	got, err := eng.Trends(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Trends: %v", err)
	}
	if len(got.Patterns) != 1 || got.Patterns[0] != "Not enough data yet." {
		t.Errorf("Patterns = %v", got.Patterns)
	}
}
