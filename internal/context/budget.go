package ctxengine

import (
	"math"

	"github.com/attune-dev/attune/pkg/chat"
)

// TokenEstimator estimates the token count of a string.
type TokenEstimator interface {
	Estimate(text string) int
}

// CharEstimator estimates tokens using a simple characters-per-token ratio.
// A ratio of ~4 works well for English and Korean; this is an approximation,
// not a tokenizer, and is only used for budget enforcement.
type CharEstimator struct {
	CharsPerToken float64
}

// NewCharEstimator creates a CharEstimator with the given ratio.
// If charsPerToken is <= 0, defaults to 4.0.
func NewCharEstimator(charsPerToken float64) *CharEstimator {
	if charsPerToken <= 0 {
		charsPerToken = 4.0
	}
	return &CharEstimator{CharsPerToken: charsPerToken}
}

// Estimate returns the estimated token count for the given text.
// Empty text costs zero; everything else rounds up so the budget is never
// underestimated.
func (e *CharEstimator) Estimate(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(math.Ceil(float64(len(text)) / e.CharsPerToken))
}

// EstimateMessages returns the total estimated tokens for a message slice.
func EstimateMessages(estimator TokenEstimator, messages []chat.Message) int {
	total := 0
	for i := range messages {
		total += estimator.Estimate(messages[i].Content)
	}
	return total
}

// BudgetInfo is one budget evaluation against the configured token limit.
type BudgetInfo struct {
	EstimatedTokens  int  `json:"estimatedTokens"`
	MaxAllowed       int  `json:"maxTokens"`
	OverLimit        bool `json:"isOverLimit"`
	TruncationNeeded bool `json:"truncationNeeded"`
}

// Budget evaluates token usage against a hard limit with a safety margin.
type Budget struct {
	MaxTokens    int
	SafetyMargin float64
}

// MaxAllowed returns the usable budget: MaxTokens less the safety margin.
func (b Budget) MaxAllowed() int {
	return int(float64(b.MaxTokens) * (1 - b.SafetyMargin))
}

// Analyze reports how currentTokens relates to the budget. Truncation is
// flagged early, at 80% of the allowed budget, so the window shrinks before
// the hard limit is ever reached.
func (b Budget) Analyze(currentTokens int) BudgetInfo {
	maxAllowed := b.MaxAllowed()
	return BudgetInfo{
		EstimatedTokens:  currentTokens,
		MaxAllowed:       maxAllowed,
		OverLimit:        currentTokens > maxAllowed,
		TruncationNeeded: float64(currentTokens) > float64(maxAllowed)*0.8,
	}
}
