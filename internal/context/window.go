package ctxengine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/attune-dev/attune/pkg/chat"
)

// Manager builds bounded, budgeted conversation contexts. All methods are
// pure with respect to their inputs and safe for concurrent use; the manager
// carries only immutable configuration.
type Manager struct {
	estimator TokenEstimator
	budget    Budget
	config    ContextConfig
	logger    *slog.Logger
}

// NewManager creates a Manager. A nil estimator selects the default
// four-characters-per-token heuristic.
func NewManager(estimator TokenEstimator, cfg ContextConfig, logger *slog.Logger) *Manager {
	cfg = cfg.withDefaults()
	if estimator == nil {
		estimator = NewCharEstimator(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		estimator: estimator,
		budget:    Budget{MaxTokens: cfg.MaxTokens, SafetyMargin: cfg.SafetyMargin},
		config:    cfg,
		logger:    logger,
	}
}

// Window applies the message cap: the most recent MaxMessages survive, plus
// the session's very first message, which frequently carries session-defining
// context and is kept even when it falls outside the recent window.
func (m *Manager) Window(messages []chat.Message) []chat.Message {
	if len(messages) <= m.config.MaxMessages {
		return messages
	}

	recent := messages[len(messages)-m.config.MaxMessages:]
	out := make([]chat.Message, 0, len(recent)+1)
	out = append(out, messages[0])
	out = append(out, recent...)
	return out
}

// Analyze evaluates the message set against the token budget.
func (m *Manager) Analyze(messages []chat.Message) BudgetInfo {
	return m.budget.Analyze(EstimateMessages(m.estimator, messages))
}

// Optimize returns a context that fits the budget: messages pass through
// untouched while usage stays below the truncation threshold, and are
// strategically truncated once it is crossed.
func (m *Manager) Optimize(messages []chat.Message) []chat.Message {
	info := m.Analyze(messages)
	if !info.TruncationNeeded {
		return messages
	}

	m.logger.Info("context window over threshold, truncating",
		"estimated_tokens", info.EstimatedTokens,
		"max_allowed", info.MaxAllowed,
	)
	return m.Truncate(messages, info.MaxAllowed)
}

// Summarize collapses an over-budget history: the RetainRecent most recent
// messages are kept verbatim, and everything older is replaced by a single
// synthetic assistant message describing the elided span. Histories short
// enough to have nothing to elide are returned unchanged.
func (m *Manager) Summarize(messages []chat.Message) []chat.Message {
	if len(messages) <= m.config.RetainRecent {
		return messages
	}

	old := messages[:len(messages)-m.config.RetainRecent]
	recent := messages[len(messages)-m.config.RetainRecent:]

	out := make([]chat.Message, 0, len(recent)+1)
	out = append(out, chat.Message{
		Role:      chat.RoleAssistant,
		Content:   "[Previous conversation summary] " + describeSpan(old),
		Timestamp: time.Now(),
	})
	return append(out, recent...)
}

// Render produces the deterministic prompt block for a message set: one line
// per message as "[label]: content" between instructional markers. An empty
// history renders to an empty string so callers can cheaply detect that no
// context is available.
func (m *Manager) Render(messages []chat.Message) string {
	if len(messages) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nPrevious conversation:\n")
	for _, msg := range messages {
		b.WriteString("[")
		b.WriteString(msg.Role.Label())
		b.WriteString("]: ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	b.WriteString("\nTake the conversation above into account when responding.\n")
	return b.String()
}

// describeSpan is the deterministic stand-in for a model-written summary:
// turn counts per role. Good enough to anchor the conversation's shape
// without another generation call on the hot path.
func describeSpan(messages []chat.Message) string {
	users, assistants := 0, 0
	for _, msg := range messages {
		if msg.Role == chat.RoleUser {
			users++
		} else {
			assistants++
		}
	}
	return fmt.Sprintf("The user sent %d messages and the counselor gave %d responses about the user's emotional state and everyday concerns.", users, assistants)
}
