package engine

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/attune-dev/attune/internal/provider/providertest"
	"github.com/attune-dev/attune/pkg/affect"
)

// installSpanRecorder swaps in a recording tracer provider and restores the
// previous global when the test ends. Tests using it must not run in
// parallel: the provider is process-global.
func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func spanNames(recorder *tracetest.SpanRecorder) map[string]bool {
	names := make(map[string]bool)
	for _, span := range recorder.Ended() {
		names[span.Name()] = true
	}
	return names
}

func TestPipelineEmitsSpans(t *testing.T) {
	recorder := installSpanRecorder(t)

	gen := &providertest.MockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "That sounds really difficult. What felt hardest about it?", nil
		},
	}
	eng, _ := newTestEngine(t, gen)

	if _, err := eng.Analyze(context.Background(), "s1", affect.ModalitySet{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := eng.Chat(context.Background(), "s1", "hello"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if _, err := eng.Feedback(context.Background(), "s1", affect.Neutral(), "rough week"); err != nil {
		t.Fatalf("Feedback: %v", err)
	}

	names := spanNames(recorder)
	for _, want := range []string{"engine.Analyze", "engine.Chat", "cbt.Elaborate"} {
		if !names[want] {
			t.Errorf("no %q span recorded; got %v", want, names)
		}
	}
}

func TestAnalyzeSpanAttributes(t *testing.T) {
	recorder := installSpanRecorder(t)

	eng, _ := newTestEngine(t, nil)
	if _, err := eng.Analyze(context.Background(), "s1", affect.ModalitySet{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	attrs := make(map[string]string)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs["session.id"] != "s1" {
		t.Errorf("session.id = %q, want s1", attrs["session.id"])
	}
	if attrs["affect.emotion"] != string(affect.EmotionNeutral) {
		t.Errorf("affect.emotion = %q, want neutral", attrs["affect.emotion"])
	}
	if _, ok := attrs["affect.risk"]; !ok {
		t.Error("affect.risk attribute missing")
	}
}
