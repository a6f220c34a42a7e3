package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/chiromo-health/cmhs-backend/internal/services"
)

type SubmitAssessmentRequest struct {
	TestType string `json:"test_type"`
	Answers  []int  `json:"answers"`
}

type AssessmentResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	TestType string `json:"test_type,omitempty"`
	Score    int    `json:"score"`
	Severity string `json:"severity,omitempty"`
	// ResultToken lets an anonymous user fetch their result once
	ResultToken string `json:"result_token,omitempty"`
}

// SubmitAssessment scores a questionnaire. Authenticated results are
// persisted; guest results are held briefly in Redis and rendered once.
func SubmitAssessment(w http.ResponseWriter, r *http.Request) {
	var req SubmitAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	score, severity, err := services.ScoreAssessment(req.TestType, req.Answers)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown test type or wrong number of answers")
		return
	}

	resp := AssessmentResponse{
		Success:  true,
		TestType: req.TestType,
		Score:    score,
		Severity: severity,
	}

	if userID, ok := optionalAuth(r); ok {
		if _, err := services.SaveAssessmentResult(userID, req.TestType, score, severity); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to save result")
			return
		}
		resp.Message = "Result saved to your profile"
	} else {
		token, err := services.StoreGuestResult(req.TestType, score, severity)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to store result")
			return
		}
		resp.ResultToken = token
		resp.Message = "Result available once via result_token"
	}

	respondJSON(w, http.StatusOK, resp)
}

type GuestResultResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message,omitempty"`
	Result  *models.AssessmentResult `json:"result,omitempty"`
}

// GetGuestResult returns an anonymous result exactly once, then discards it.
func GetGuestResult(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	result, err := services.FetchGuestResult(token)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load result")
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "Result not found or already viewed")
		return
	}
	respondJSON(w, http.StatusOK, GuestResultResponse{Success: true, Result: result})
}

type AssessmentHistoryResponse struct {
	Success bool                      `json:"success"`
	Results []models.AssessmentResult `json:"results"`
}

// ListAssessmentResults returns the authenticated patient's past results.
func ListAssessmentResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	results, err := services.ListAssessmentResults(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load results")
		return
	}
	respondJSON(w, http.StatusOK, AssessmentHistoryResponse{Success: true, Results: results})
}
