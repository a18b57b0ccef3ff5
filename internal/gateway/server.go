package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Public, no auth required.
	r.Get("/health", g.handleHealth())

	// Everything else sits behind bearer auth when a token is configured.
	r.Group(func(r chi.Router) {
		if g.config.Auth.IsConfigured() {
			r.Use(authMiddleware(g.config.Auth))
		}

		r.Get("/status", g.handleStatus())
		r.Handle("/metrics", promhttp.HandlerFor(g.metrics.Registry(), promhttp.HandlerOpts{}))

		r.Get("/ws/chat", g.handleChatSocket())

		r.Route("/api", func(r chi.Router) {
			r.Post("/analyze", g.handleAnalyze())
			r.Post("/feedback", g.handleFeedback())
			r.Post("/chat", g.handleChat())
			r.Get("/sessions", g.handleListSessions())
			r.Get("/sessions/{id}/trends", g.handleTrends())
			r.Get("/sessions/{id}/history", g.handleSessionHistory())
			r.Delete("/sessions/{id}", g.handleDeleteSession())
		})
	})

	return r
}
