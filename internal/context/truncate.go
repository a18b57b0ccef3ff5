package ctxengine

import (
	"unicode/utf8"

	"github.com/attune-dev/attune/pkg/chat"
)

// truncationMarker is appended to shrunk content. Its length is charged
// against the message's character allowance so the token budget holds.
const truncationMarker = "..."

// Truncate reduces a message set to fit within target tokens. A set already
// under target is returned untouched, which makes the operation idempotent.
//
// Selection order:
//  1. The first message (the conversational anchor) is always kept.
//  2. Remaining messages are admitted newest first while the cumulative
//     estimate stays within target; the first message that would overflow
//     stops the scan.
//  3. If the kept set still exceeds target, message contents are shrunk to
//     the character length the remaining budget allows, with an ellipsis
//     marker. A message whose allowance falls below MinContentChars is
//     dropped instead of being shrunk to noise.
//
// The returned slice preserves conversational order.
func (m *Manager) Truncate(messages []chat.Message, target int) []chat.Message {
	if len(messages) == 0 {
		return messages
	}
	if EstimateMessages(m.estimator, messages) <= target {
		return messages
	}

	kept := m.selectMessages(messages, target)
	if EstimateMessages(m.estimator, kept) > target {
		kept = m.shrinkContents(kept, target)
	}

	m.logger.Debug("truncated context",
		"before", len(messages),
		"after", len(kept),
	)
	return kept
}

// selectMessages picks the anchor plus as many recent messages as fit.
func (m *Manager) selectMessages(messages []chat.Message, target int) []chat.Message {
	include := make([]bool, len(messages))
	include[0] = true
	tokens := m.estimator.Estimate(messages[0].Content)

	for i := len(messages) - 1; i > 0; i-- {
		cost := m.estimator.Estimate(messages[i].Content)
		if tokens+cost > target {
			break
		}
		include[i] = true
		tokens += cost
	}

	var kept []chat.Message
	for i, msg := range messages {
		if include[i] {
			kept = append(kept, msg)
		}
	}
	return kept
}

// shrinkContents walks the kept messages in order, cutting each one down to
// the character budget still available. Exhausting the budget mid-walk drops
// the rest.
func (m *Manager) shrinkContents(messages []chat.Message, target int) []chat.Message {
	var out []chat.Message
	tokens := 0

	for _, msg := range messages {
		cost := m.estimator.Estimate(msg.Content)
		if tokens+cost > target {
			allowed := (target - tokens) * 4
			if allowed < m.config.MinContentChars {
				continue
			}
			if allowed < len(msg.Content) {
				cut := allowed - len(truncationMarker)
				// Never split a multibyte rune.
				for cut > 0 && !utf8.RuneStart(msg.Content[cut]) {
					cut--
				}
				msg.Content = msg.Content[:cut] + truncationMarker
			}
			cost = m.estimator.Estimate(msg.Content)
		}
		out = append(out, msg)
		tokens += cost
		if tokens >= target {
			break
		}
	}
	return out
}
