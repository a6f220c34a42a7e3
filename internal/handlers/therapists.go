package handlers

import (
	"net/http"

	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/chiromo-health/cmhs-backend/internal/services"
)

type TherapistListResponse struct {
	Success    bool          `json:"success"`
	Therapists []models.User `json:"therapists"`
}

// ListTherapists returns the active therapists for the booking form.
func ListTherapists(w http.ResponseWriter, r *http.Request) {
	therapists, err := services.ListTherapists()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load therapists")
		return
	}
	respondJSON(w, http.StatusOK, TherapistListResponse{Success: true, Therapists: therapists})
}

type PatientListResponse struct {
	Success  bool          `json:"success"`
	Patients []models.User `json:"patients"`
}

// ListMyPatients returns the distinct patients who have booked with the
// authenticated therapist.
func ListMyPatients(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	role, err := services.GetUserRole(userID)
	if err != nil || role != models.RoleTherapist {
		respondError(w, http.StatusForbidden, "Not allowed")
		return
	}

	patients, err := services.ListPatientsOfTherapist(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load patients")
		return
	}
	respondJSON(w, http.StatusOK, PatientListResponse{Success: true, Patients: patients})
}
