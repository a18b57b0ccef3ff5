// Package chat defines the conversation data contract shared by the context
// engine, the history stores, and the HTTP layer.
package chat

import "time"

// Role identifies the author of a conversation message.
type Role string

// Conversation roles. The assistant speaks as the counselor.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label returns the display label used when rendering a message into a
// prompt.
func (r Role) Label() string {
	if r == RoleAssistant {
		return "Counselor"
	}
	return "User"
}

// Message is a single conversation turn. Within a session, messages are
// ordered exactly as appended; insertion order is conversational order.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
