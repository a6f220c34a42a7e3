package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/chiromo-health/cmhs-backend/internal/services"
	"github.com/google/uuid"
)

// ErrorResponse is the envelope for failures.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// respondServiceError maps domain errors to HTTP statuses. Authorization
// failures deliberately share one terse message.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, services.ErrUnauthorized):
		respondError(w, http.StatusForbidden, "Not allowed")
	case errors.Is(err, services.ErrInvalidState):
		respondError(w, http.StatusConflict, "Operation not valid in the current state")
	case errors.Is(err, services.ErrConflict):
		respondError(w, http.StatusConflict, "Already exists")
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrExternalService):
		respondError(w, http.StatusBadGateway, "Payment service is unavailable. Please try again.")
	default:
		respondError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

// extractBearerToken pulls the token out of an Authorization header.
func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireAuth validates the bearer session and returns the authenticated
// user's ID. Returns (uuid.Nil, false) if not authenticated.
func requireAuth(r *http.Request) (uuid.UUID, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return uuid.Nil, false
	}
	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		return uuid.Nil, false
	}
	return userID, true
}

// optionalAuth is requireAuth for endpoints that also serve guests.
func optionalAuth(r *http.Request) (uuid.UUID, bool) {
	return requireAuth(r)
}
