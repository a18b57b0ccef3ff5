package gateway

import (
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/attune-dev/attune/internal/engine"
)

// wsError is sent to the client when a chat turn fails.
type wsError struct {
	Error string `json:"error"`
}

// wsChunk is one streamed frame of a counselor reply. Content arrives one
// paragraph at a time; the final frame sets Done and carries the analysis
// sections.
type wsChunk struct {
	Content             string                      `json:"content"`
	Done                bool                        `json:"done"`
	EmotionAnalysis     *engine.EmotionAnalysis     `json:"emotionAnalysis,omitempty"`
	TherapeuticApproach *engine.TherapeuticApproach `json:"therapeuticApproach,omitempty"`
}

// handleChatSocket upgrades the connection and runs a chat loop: each
// inbound ChatRequest produces one reply streamed as paragraph chunks. The
// loop ends when the client closes the socket or a write fails.
func (g *Gateway) handleChatSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			g.logger.Warn("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()
		for {
			var req ChatRequest
			if err := wsjson.Read(ctx, conn, &req); err != nil {
				return
			}

			if req.SessionID == "" || req.Message == "" {
				if err := wsjson.Write(ctx, conn, wsError{Error: "sessionId and message are required"}); err != nil {
					return
				}
				continue
			}

			reply, err := g.engine.Chat(ctx, req.SessionID, req.Message)
			if err != nil {
				g.metrics.RecordError()
				g.logger.Error("websocket chat failed", "session_id", req.SessionID, "error", err)
				if err := wsjson.Write(ctx, conn, wsError{Error: "chat failed"}); err != nil {
					return
				}
				continue
			}
			g.metrics.RecordChat()

			for _, chunk := range replyChunks(reply) {
				if err := wsjson.Write(ctx, conn, chunk); err != nil {
					return
				}
			}
		}
	}
}

// replyChunks splits a reply into paragraph frames. The last frame carries
// Done and the analysis sections; a reply with no paragraph breaks becomes a
// single final frame.
func replyChunks(reply engine.ChatReply) []wsChunk {
	paragraphs := splitParagraphs(reply.Content)
	if len(paragraphs) == 0 {
		paragraphs = []string{reply.Content}
	}

	chunks := make([]wsChunk, len(paragraphs))
	for i, p := range paragraphs {
		chunks[i] = wsChunk{Content: p}
	}

	last := &chunks[len(chunks)-1]
	last.Done = true
	last.EmotionAnalysis = reply.EmotionAnalysis
	last.TherapeuticApproach = reply.TherapeuticApproach
	return chunks
}

// splitParagraphs breaks text on blank lines, dropping empty segments.
func splitParagraphs(text string) []string {
	var out []string
	for _, part := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
