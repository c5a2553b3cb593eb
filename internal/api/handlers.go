package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ignite/suppression-api/internal/config"
	"github.com/ignite/suppression-api/internal/suppression"
)

// SuppressionClient is the slice of the suppression client the handlers use.
type SuppressionClient interface {
	Check(ctx context.Context, email string) (*suppression.Status, error)
	Remove(ctx context.Context, email string) (*suppression.Removal, error)
}

// Handlers holds the HTTP handlers and their dependencies
type Handlers struct {
	suppressions SuppressionClient
	service      config.ServiceConfig
	region       string
}

// NewHandlers creates the handler set
func NewHandlers(client SuppressionClient, service config.ServiceConfig, region string) *Handlers {
	return &Handlers{
		suppressions: client,
		service:      service,
		region:       region,
	}
}

// Root is the basic health check
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": h.service.Name,
		"version": h.service.Version,
	})
}

// HealthCheck returns service configuration and available endpoints
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": h.service.Name,
		"version": h.service.Version,
		"region":  h.region,
		"endpoints": map[string]interface{}{
			"health": "/health",
			"email_suppression": map[string]string{
				"check":  "GET /api/v1/email-suppression/{email}",
				"remove": "DELETE /api/v1/email-suppression/{email}",
			},
		},
	})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"detail": message})
}
