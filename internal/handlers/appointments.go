package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/chiromo-health/cmhs-backend/internal/services"
	"github.com/google/uuid"
)

type BookAppointmentRequest struct {
	TherapistID string `json:"therapist_id"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM
	Mode        string `json:"mode"` // online or physical
	Notes       string `json:"notes,omitempty"`
}

type AppointmentResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message,omitempty"`
	Appointment *models.Appointment `json:"appointment,omitempty"`
}

type AppointmentListResponse struct {
	Success      bool                 `json:"success"`
	Appointments []models.Appointment `json:"appointments"`
}

// BookAppointment creates a pending appointment request for the
// authenticated patient.
func BookAppointment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	therapistID, err := uuid.Parse(req.TherapistID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid therapist")
		return
	}

	appt, err := services.BookAppointment(userID, therapistID, req.Date, req.Time, req.Mode, req.Notes, notifier)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, AppointmentResponse{
		Success:     true,
		Message:     "Your session has been booked successfully! Check your email.",
		Appointment: appt,
	})
}

// ListAppointments returns the caller's appointments: as patient for
// patients, as therapist for therapists.
func ListAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	role, err := services.GetUserRole(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load appointments")
		return
	}

	var appts []models.Appointment
	if role == models.RoleTherapist {
		appts, err = services.ListAppointmentsByTherapist(userID)
	} else {
		appts, err = services.ListAppointmentsByPatient(userID)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load appointments")
		return
	}

	respondJSON(w, http.StatusOK, AppointmentListResponse{Success: true, Appointments: appts})
}

type AppointmentActionRequest struct {
	AppointmentID string `json:"appointment_id"`
}

// ApproveAppointment confirms a pending appointment (assigned therapist only).
func ApproveAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentAction(w, r, services.ApproveAppointment, "Appointment confirmed")
}

// DeclineAppointment declines a pending appointment (assigned therapist only).
func DeclineAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentAction(w, r, services.DeclineAppointment, "Appointment declined")
}

// CancelAppointment cancels a pending appointment (booking patient only).
func CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentAction(w, r, services.CancelAppointment, "Appointment cancelled")
}

func appointmentAction(w http.ResponseWriter, r *http.Request, action func(uuid.UUID, uuid.UUID) (*models.Appointment, error), message string) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AppointmentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid appointment")
		return
	}

	appt, err := action(appointmentID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AppointmentResponse{Success: true, Message: message, Appointment: appt})
}

type SessionLogResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	SessionLog *models.SessionLog `json:"session_log,omitempty"`
}

// LogSession records session notes for a confirmed appointment, completing
// it. Accepts multipart form data with an optional resource file uploaded to
// Cloudinary.
func LogSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10 MB
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	appointmentID, err := uuid.Parse(r.FormValue("appointment_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid appointment")
		return
	}
	notes := r.FormValue("notes")

	resourceURL := ""
	if _, fileHeader, err := r.FormFile("resource"); err == nil && fileHeader != nil {
		if cloudinaryService == nil {
			respondError(w, http.StatusServiceUnavailable, "File uploads are not available")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()
		resourceURL, err = cloudinaryService.UploadFileFromHeader(ctx, fileHeader, "therapy_resources")
		if err != nil {
			respondError(w, http.StatusBadGateway, "Failed to upload resource file")
			return
		}
	}

	entry, err := services.LogSession(appointmentID, userID, notes, resourceURL)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, SessionLogResponse{
		Success:    true,
		Message:    "Session logged",
		SessionLog: entry,
	})
}
