package gateway

import (
	"net/http"
	"time"
)

// StatusResponse reports runtime state for GET /status: uptime, the counter
// snapshot, stored session count, and the active model if one is configured.
type StatusResponse struct {
	Uptime   time.Duration   `json:"uptime_seconds"`
	Metrics  MetricsSnapshot `json:"metrics"`
	Sessions int             `json:"sessions"`
	Model    string          `json:"model,omitempty"`
}

func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Uptime:  time.Since(g.startedAt).Truncate(time.Second),
			Metrics: g.metrics.Snapshot(),
			Model:   g.modelName,
		}

		if g.store != nil {
			if sessions, err := g.store.Sessions(); err == nil {
				resp.Sessions = len(sessions)
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
