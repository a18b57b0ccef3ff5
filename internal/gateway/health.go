package gateway

import "net/http"

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// handleHealth returns an http.HandlerFunc for GET /health.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{Status: "ok"}

		if g.store != nil {
			if sessions, err := g.store.Sessions(); err == nil {
				resp.Sessions = len(sessions)
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
