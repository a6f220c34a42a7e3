package services

import (
	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/google/uuid"
)

// Appointment lifecycle rules, kept in one place instead of ad-hoc role
// checks in every handler. Each rule checks authorization before state so a
// wrong actor never learns the appointment's current status.

// CanApprove: only the assigned therapist may approve, and only while pending.
func CanApprove(actorID uuid.UUID, appt *models.Appointment) error {
	if actorID != appt.TherapistID {
		return ErrUnauthorized
	}
	if appt.Status != models.AppointmentPending {
		return ErrInvalidState
	}
	return nil
}

// CanDecline: same rule as approval; declining moves the appointment to cancelled.
func CanDecline(actorID uuid.UUID, appt *models.Appointment) error {
	return CanApprove(actorID, appt)
}

// CanCancel: only the booking patient, and only while the request is still pending.
func CanCancel(actorID uuid.UUID, appt *models.Appointment) error {
	if actorID != appt.PatientID {
		return ErrUnauthorized
	}
	if appt.Status != models.AppointmentPending {
		return ErrInvalidState
	}
	return nil
}

// CanLogSession: only the assigned therapist, and only for a confirmed
// appointment. Logging completes the appointment.
func CanLogSession(actorID uuid.UUID, appt *models.Appointment) error {
	if actorID != appt.TherapistID {
		return ErrUnauthorized
	}
	if appt.Status != models.AppointmentConfirmed {
		return ErrInvalidState
	}
	return nil
}
