package models

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment modes
const (
	ModeOnline   = "online"
	ModePhysical = "physical"
)

type Appointment struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	PatientID   uuid.UUID `json:"patient_id"`
	TherapistID uuid.UUID `json:"therapist_id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM
	Mode        string    `json:"mode"`
	Status      string    `json:"status"`
	MeetingLink string    `json:"meeting_link,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// SessionLog holds a therapist's confidential notes for a completed
// appointment. One per appointment, immutable once written.
type SessionLog struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	TherapistID   uuid.UUID `json:"therapist_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	Notes         string    `json:"notes"`
	ResourceURL   string    `json:"resource_url,omitempty"`
	SessionDate   string    `json:"session_date"`
}

// IsValidMode reports whether mode is a supported appointment mode.
func IsValidMode(mode string) bool {
	return mode == ModeOnline || mode == ModePhysical
}
