package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/suppression-api/internal/logging"
)

// SetupRoutes configures all API routes.
//
// The recoverer is mounted outermost so the request logger (inside it) sees
// handler panics first, logs them with the correlation ID, and re-raises;
// the recoverer then converts them to a JSON 500.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(recoverer)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger)

	// CORS - browser-based clients may call the API directly
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Health checks (no auth required)
	r.Get("/", h.Root)
	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/email-suppression", func(r chi.Router) {
			r.Get("/{email}", h.CheckSuppression)
			r.Delete("/{email}", h.RemoveSuppression)
		})
	})

	return r
}
