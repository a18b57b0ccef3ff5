package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/attune-dev/attune/pkg/chat"
)

// EmotionAnalysis is the model's read of the user's state in a chat reply.
type EmotionAnalysis struct {
	PrimaryEmotion  string   `json:"primaryEmotion"`
	Confidence      float64  `json:"confidence"`
	Suggestions     []string `json:"suggestions"`
	ContextualNotes string   `json:"contextualNotes"`
}

// TherapeuticApproach documents the technique behind a chat reply.
type TherapeuticApproach struct {
	Technique string `json:"technique"`
	Rationale string `json:"rationale"`
	NextSteps string `json:"nextSteps"`
}

// ChatReply is one counselor turn. The analysis sections are present only
// when the model produced a well-formed structured response.
type ChatReply struct {
	Content             string               `json:"content"`
	EmotionAnalysis     *EmotionAnalysis     `json:"emotionAnalysis,omitempty"`
	TherapeuticApproach *TherapeuticApproach `json:"therapeuticApproach,omitempty"`
}

// fallbackReply is returned when no generator is configured or the model
// response is unusable. The conversation continues either way.
const fallbackReply = "Thank you for sharing that with me. I want to make sure I understand what you are going through. Could you tell me a little more about how this has been affecting you?"

// Chat handles one user turn: the message is appended to the session, the
// stored history is windowed and budgeted into a prompt, the counselor reply
// is generated, and both sides of the exchange end up in the store.
func (e *Engine) Chat(ctx context.Context, sessionID, message string) (ChatReply, error) {
	ctx, span := tracer.Start(ctx, "engine.Chat")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	userMsg := chat.Message{Role: chat.RoleUser, Content: message, Timestamp: e.now()}
	if err := e.store.Append(sessionID, userMsg); err != nil {
		return ChatReply{}, fmt.Errorf("append user message: %w", err)
	}

	reply := e.reply(ctx, sessionID, message)

	assistantMsg := chat.Message{Role: chat.RoleAssistant, Content: reply.Content, Timestamp: e.now()}
	if err := e.store.Append(sessionID, assistantMsg); err != nil {
		return ChatReply{}, fmt.Errorf("append assistant message: %w", err)
	}
	return reply, nil
}

// reply produces the counselor turn, falling back to the canned response on
// any generation or parse failure.
func (e *Engine) reply(ctx context.Context, sessionID, message string) ChatReply {
	if e.generator == nil {
		return ChatReply{Content: fallbackReply}
	}

	contextBlock, err := e.contextBlock(sessionID)
	if err != nil {
		e.logger.Warn("building chat context failed", "session_id", sessionID, "error", err)
		contextBlock = ""
	}

	prompt := BuildChatPrompt(contextBlock, message)
	raw, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		e.logger.Warn("chat generation failed, using fallback",
			"session_id", sessionID,
			"error", err,
		)
		return ChatReply{Content: fallbackReply}
	}

	reply, err := parseChatReply(raw)
	if err != nil {
		e.logger.Warn("chat response unparsable, using raw text",
			"session_id", sessionID,
			"error", err,
		)
		// Plain prose is still a usable reply; only empty output falls back.
		if text := strings.TrimSpace(raw); text != "" {
			return ChatReply{Content: text}
		}
		return ChatReply{Content: fallbackReply}
	}
	return reply
}

// contextBlock loads, windows, budgets, and renders the session history.
// The user message just appended is excluded so it is not repeated in the
// prompt's history section.
func (e *Engine) contextBlock(sessionID string) (string, error) {
	messages, err := e.store.GetAll(sessionID)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	if len(messages) > 0 {
		messages = messages[:len(messages)-1]
	}

	windowed := e.context.Window(messages)
	if e.context.Analyze(windowed).OverLimit {
		windowed = e.context.Summarize(windowed)
	}
	windowed = e.context.Optimize(windowed)
	return e.context.Render(windowed), nil
}

// parseChatReply decodes a structured counselor response: the JSON object
// spanning the first '{' to the last '}', with a mandatory content field.
func parseChatReply(raw string) (ChatReply, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ChatReply{}, fmt.Errorf("no JSON object in response")
	}

	var reply ChatReply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &reply); err != nil {
		return ChatReply{}, fmt.Errorf("decoding chat reply: %w", err)
	}
	if reply.Content == "" {
		return ChatReply{}, fmt.Errorf("chat reply has no content")
	}
	return reply, nil
}
