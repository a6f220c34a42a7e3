package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/chiromo-health/cmhs-backend/internal/services"
)

type LogMoodRequest struct {
	Mood string `json:"mood"`
}

type MoodResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Entry   *models.MoodEntry `json:"entry,omitempty"`
}

type MoodListResponse struct {
	Success bool               `json:"success"`
	Entries []models.MoodEntry `json:"entries"`
}

// LogMood records today's mood. A second call on the same day is a no-op
// reported as "already logged".
func LogMood(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req LogMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := services.LogMood(userID, req.Mood)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			respondJSON(w, http.StatusOK, MoodResponse{Success: true, Message: "Mood already logged for today"})
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, MoodResponse{Success: true, Message: "Mood logged", Entry: entry})
}

// ListMoods returns the caller's recent mood entries.
func ListMoods(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := services.ListRecentMoods(userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load moods")
		return
	}

	respondJSON(w, http.StatusOK, MoodListResponse{Success: true, Entries: entries})
}
