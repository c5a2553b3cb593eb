// Email suppression HTTP handlers.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/suppression-api/internal/logging"
	"github.com/ignite/suppression-api/internal/suppression"
)

// SuppressionDetail describes a suppression entry
type SuppressionDetail struct {
	Reason         string `json:"reason"`
	LastUpdateTime string `json:"last_update_time"`
}

// CheckSuppressionResponse is the response for checking suppression status
type CheckSuppressionResponse struct {
	Email        string             `json:"email"`
	IsSuppressed bool               `json:"is_suppressed"`
	Suppression  *SuppressionDetail `json:"suppression,omitempty"`
}

// RemoveSuppressionResponse is the response for removing a suppression
type RemoveSuppressionResponse struct {
	Message                string `json:"message"`
	Email                  string `json:"email"`
	Removed                bool   `json:"removed"`
	PreviousReason         string `json:"previous_reason"`
	PreviousLastUpdateTime string `json:"previous_last_update_time"`
}

// CheckSuppression handles GET /api/v1/email-suppression/{email}
func (h *Handlers) CheckSuppression(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	logger := logging.Logger("api")
	logger.InfoContext(r.Context(), "checking email suppression", "email", email)

	status, err := h.suppressions.Check(r.Context(), email)
	if err != nil {
		logger.ErrorContext(r.Context(), "suppression check failed",
			"email", email, logging.Exception(err))
		respondError(w, http.StatusInternalServerError, "suppression check failed")
		return
	}

	resp := CheckSuppressionResponse{
		Email:        status.Email,
		IsSuppressed: status.Suppressed,
	}
	if status.Suppressed {
		resp.Suppression = &SuppressionDetail{
			Reason:         status.Reason,
			LastUpdateTime: status.LastUpdateTime.UTC().Format(time.RFC3339),
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// RemoveSuppression handles DELETE /api/v1/email-suppression/{email}
func (h *Handlers) RemoveSuppression(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	logger := logging.Logger("api")
	logger.InfoContext(r.Context(), "removing email suppression", "email", email)

	removal, err := h.suppressions.Remove(r.Context(), email)
	if err != nil {
		if errors.Is(err, suppression.ErrNotSuppressed) {
			respondError(w, http.StatusNotFound,
				fmt.Sprintf("email %q is not in the suppression list", email))
			return
		}
		logger.ErrorContext(r.Context(), "suppression removal failed",
			"email", email, logging.Exception(err))
		respondError(w, http.StatusInternalServerError, "suppression removal failed")
		return
	}

	respondJSON(w, http.StatusOK, RemoveSuppressionResponse{
		Message:                fmt.Sprintf("email %q has been removed from the suppression list", email),
		Email:                  removal.Email,
		Removed:                true,
		PreviousReason:         removal.PreviousReason,
		PreviousLastUpdateTime: removal.PreviousLastUpdateTime.UTC().Format(time.RFC3339),
	})
}
