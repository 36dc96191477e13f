package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"flowpro/internal/config"
	"flowpro/pkg/logger"
	"flowpro/pkg/metrics"
)

// NewRouter assembles the api routes and middleware chain
func NewRouter(cfg *config.Config, h *Handler, log logger.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(requestLogger(log, m))
	r.Use(rateLimit(log, cfg.RateLimit, cfg.RateBurst))
	r.Use(middleware.Timeout(cfg.HTTPTimeout))

	r.Get("/healthz", h.handleHealth)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/executions", h.handleExecute)
		r.Get("/executions/{executionID}", h.handleGetExecution)
		r.Get("/executions/{executionID}/logs", h.handleGetExecutionLogs)
		r.Post("/workflows/validate", h.handleValidate)
	})

	return r
}
