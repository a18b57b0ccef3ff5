package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/attune-dev/attune/internal/history"
	"github.com/attune-dev/attune/pkg/affect"
	"github.com/attune-dev/attune/pkg/chat"
)

// AnalyzeRequest carries the per-modality payloads of one analysis call.
// Any subset of channels may be present; an empty set yields a neutral
// baseline result.
type AnalyzeRequest struct {
	SessionID string               `json:"sessionId,omitempty"`
	Facial    *affect.FacialResult `json:"facial,omitempty"`
	Voice     *affect.VoiceResult  `json:"voice,omitempty"`
	Text      *affect.TextResult   `json:"text,omitempty"`
}

// FeedbackRequest asks for a coping strategy for a known affective state.
type FeedbackRequest struct {
	SessionID string          `json:"sessionId"`
	VAD       affect.VADScore `json:"vadScore"`
	Context   string          `json:"context,omitempty"`
}

// ChatRequest carries one user chat message.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// historyResponse is the JSON response for GET /api/sessions/{id}/history.
type historyResponse struct {
	SessionID string         `json:"sessionId"`
	Messages  []chat.Message `json:"messages"`
}

// handleAnalyze runs the multimodal fusion pipeline on the posted payloads.
func (g *Gateway) handleAnalyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		set := affect.ModalitySet{Facial: req.Facial, Voice: req.Voice, Text: req.Text}

		start := time.Now()
		analysis, err := g.engine.Analyze(r.Context(), req.SessionID, set)
		if err != nil {
			g.metrics.RecordError()
			g.logger.Error("analysis failed", "session_id", req.SessionID, "error", err)
			http.Error(w, "analysis failed", http.StatusInternalServerError)
			return
		}
		g.metrics.RecordAnalysis(time.Since(start))

		writeJSON(w, http.StatusOK, analysis)
	}
}

// handleFeedback maps a reported affective state to a coping strategy.
func (g *Gateway) handleFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		strategy, err := g.engine.Feedback(r.Context(), req.SessionID, req.VAD, req.Context)
		if err != nil {
			g.metrics.RecordError()
			g.logger.Error("feedback failed", "session_id", req.SessionID, "error", err)
			http.Error(w, "feedback failed", http.StatusInternalServerError)
			return
		}
		g.metrics.RecordFeedback()

		writeJSON(w, http.StatusOK, strategy)
	}
}

// handleChat processes one chat turn and returns the counselor reply.
func (g *Gateway) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.SessionID == "" || req.Message == "" {
			http.Error(w, "sessionId and message are required", http.StatusBadRequest)
			return
		}

		reply, err := g.engine.Chat(r.Context(), req.SessionID, req.Message)
		if err != nil {
			g.metrics.RecordError()
			g.logger.Error("chat failed", "session_id", req.SessionID, "error", err)
			http.Error(w, "chat failed", http.StatusInternalServerError)
			return
		}
		g.metrics.RecordChat()

		writeJSON(w, http.StatusOK, reply)
	}
}

// handleListSessions returns all known sessions as JSON.
func (g *Gateway) handleListSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		sessions, err := g.store.Sessions()
		if err != nil {
			g.metrics.RecordError()
			http.Error(w, "failed to list sessions", http.StatusInternalServerError)
			return
		}
		if sessions == nil {
			sessions = []history.SessionInfo{}
		}
		writeJSON(w, http.StatusOK, sessions)
	}
}

// handleTrends analyzes the session's recorded snapshots for patterns.
func (g *Gateway) handleTrends() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "missing session id", http.StatusBadRequest)
			return
		}

		patterns, err := g.engine.Trends(r.Context(), id)
		if err != nil {
			g.metrics.RecordError()
			http.Error(w, "trend analysis failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, patterns)
	}
}

// handleSessionHistory returns the full conversation for a session.
func (g *Gateway) handleSessionHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "missing session id", http.StatusBadRequest)
			return
		}

		messages, err := g.store.GetAll(id)
		if err != nil {
			g.metrics.RecordError()
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
		if messages == nil {
			messages = []chat.Message{}
		}
		writeJSON(w, http.StatusOK, historyResponse{SessionID: id, Messages: messages})
	}
}

// handleDeleteSession purges all stored data for a session.
func (g *Gateway) handleDeleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "missing session id", http.StatusBadRequest)
			return
		}

		if err := g.store.Purge(id); err != nil {
			g.metrics.RecordError()
			http.Error(w, "failed to delete session", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
