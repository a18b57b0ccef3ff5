package ctxengine

import (
	"strings"
	"testing"

	"github.com/attune-dev/attune/pkg/chat"
)

func TestCharEstimator(t *testing.T) {
	t.Parallel()

	e := NewCharEstimator(0)

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"exact multiple", strings.Repeat("a", 40), 10},
		{"rounds up", strings.Repeat("a", 41), 11},
		{"single char", "a", 1},
		{"four chars", "abcd", 1},
		{"five chars", "abcde", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := e.Estimate(tt.text); got != tt.want {
				t.Errorf("Estimate(%d chars) = %d, want %d", len(tt.text), got, tt.want)
			}
		})
	}
}

func TestCharEstimator_CustomRatio(t *testing.T) {
	t.Parallel()

	e := NewCharEstimator(2)
	if got := e.Estimate("abcdef"); got != 3 {
		t.Errorf("Estimate = %d, want 3", got)
	}
}

func TestEstimateMessages(t *testing.T) {
	t.Parallel()

	e := NewCharEstimator(0)
	messages := []chat.Message{
		{Role: chat.RoleUser, Content: strings.Repeat("a", 40)},      // 10
		{Role: chat.RoleAssistant, Content: strings.Repeat("b", 20)}, // 5
		{Role: chat.RoleUser, Content: ""},                           // 0
	}
	if got := EstimateMessages(e, messages); got != 15 {
		t.Errorf("EstimateMessages = %d, want 15", got)
	}
}

func TestBudgetMaxAllowed(t *testing.T) {
	t.Parallel()

	b := Budget{MaxTokens: 800000, SafetyMargin: 0.1}
	if got := b.MaxAllowed(); got != 720000 {
		t.Errorf("MaxAllowed = %d, want 720000", got)
	}
}

func TestBudgetAnalyze(t *testing.T) {
	t.Parallel()

	b := Budget{MaxTokens: 1000, SafetyMargin: 0.1} // allowed 900, threshold 720

	tests := []struct {
		name           string
		tokens         int
		wantOver       bool
		wantTruncation bool
	}{
		{"well under", 100, false, false},
		{"at threshold", 720, false, false},
		{"just over threshold", 721, false, true},
		{"at allowed", 900, false, true},
		{"over allowed", 901, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			info := b.Analyze(tt.tokens)
			if info.OverLimit != tt.wantOver {
				t.Errorf("OverLimit = %v, want %v", info.OverLimit, tt.wantOver)
			}
			if info.TruncationNeeded != tt.wantTruncation {
				t.Errorf("TruncationNeeded = %v, want %v", info.TruncationNeeded, tt.wantTruncation)
			}
		})
	}
}
