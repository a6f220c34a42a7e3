package services

import (
	"testing"

	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/google/uuid"
)

func testAppointment(status string) (*models.Appointment, uuid.UUID, uuid.UUID) {
	patientID := uuid.New()
	therapistID := uuid.New()
	return &models.Appointment{
		ID:          uuid.New(),
		PatientID:   patientID,
		TherapistID: therapistID,
		Status:      status,
	}, patientID, therapistID
}

func TestCanApprove(t *testing.T) {
	appt, patientID, therapistID := testAppointment(models.AppointmentPending)

	if err := CanApprove(therapistID, appt); err != nil {
		t.Errorf("assigned therapist on pending: expected nil, got %v", err)
	}
	if err := CanApprove(patientID, appt); err != ErrUnauthorized {
		t.Errorf("patient approving: expected ErrUnauthorized, got %v", err)
	}
	if err := CanApprove(uuid.New(), appt); err != ErrUnauthorized {
		t.Errorf("stranger approving: expected ErrUnauthorized, got %v", err)
	}

	// Authorization is checked before state: wrong actor never learns status
	for _, status := range []string{models.AppointmentConfirmed, models.AppointmentCompleted, models.AppointmentCancelled} {
		appt.Status = status
		if err := CanApprove(therapistID, appt); err != ErrInvalidState {
			t.Errorf("approve from %s: expected ErrInvalidState, got %v", status, err)
		}
		if err := CanApprove(patientID, appt); err != ErrUnauthorized {
			t.Errorf("patient approving %s appointment: expected ErrUnauthorized, got %v", status, err)
		}
	}
}

func TestCanCancel(t *testing.T) {
	appt, patientID, therapistID := testAppointment(models.AppointmentPending)

	if err := CanCancel(patientID, appt); err != nil {
		t.Errorf("patient cancelling pending: expected nil, got %v", err)
	}
	if err := CanCancel(therapistID, appt); err != ErrUnauthorized {
		t.Errorf("therapist cancelling: expected ErrUnauthorized, got %v", err)
	}

	// Only pending appointments may be cancelled
	for _, status := range []string{models.AppointmentConfirmed, models.AppointmentCompleted, models.AppointmentCancelled} {
		appt.Status = status
		if err := CanCancel(patientID, appt); err != ErrInvalidState {
			t.Errorf("cancel from %s: expected ErrInvalidState, got %v", status, err)
		}
	}
}

func TestCanLogSession(t *testing.T) {
	appt, patientID, therapistID := testAppointment(models.AppointmentConfirmed)

	if err := CanLogSession(therapistID, appt); err != nil {
		t.Errorf("therapist logging confirmed session: expected nil, got %v", err)
	}
	if err := CanLogSession(patientID, appt); err != ErrUnauthorized {
		t.Errorf("patient logging session: expected ErrUnauthorized, got %v", err)
	}

	for _, status := range []string{models.AppointmentPending, models.AppointmentCompleted, models.AppointmentCancelled} {
		appt.Status = status
		if err := CanLogSession(therapistID, appt); err != ErrInvalidState {
			t.Errorf("log session from %s: expected ErrInvalidState, got %v", status, err)
		}
	}
}

// TestTransitionMatrix documents the only legal moves:
// pending->confirmed (approve), pending->cancelled (decline or patient
// cancel) and confirmed->completed (session log). Everything else is
// rejected by the rules above.
func TestTransitionMatrix(t *testing.T) {
	type rule func(uuid.UUID, *models.Appointment) error

	appt, patientID, therapistID := testAppointment(models.AppointmentPending)
	legal := []struct {
		name  string
		from  string
		actor uuid.UUID
		rule  rule
	}{
		{"approve", models.AppointmentPending, therapistID, CanApprove},
		{"decline", models.AppointmentPending, therapistID, CanDecline},
		{"cancel", models.AppointmentPending, patientID, CanCancel},
		{"logSession", models.AppointmentConfirmed, therapistID, CanLogSession},
	}

	allStates := []string{models.AppointmentPending, models.AppointmentConfirmed, models.AppointmentCompleted, models.AppointmentCancelled}
	for _, tc := range legal {
		for _, state := range allStates {
			appt.Status = state
			err := tc.rule(tc.actor, appt)
			if state == tc.from && err != nil {
				t.Errorf("%s from %s: expected nil, got %v", tc.name, state, err)
			}
			if state != tc.from && err == nil {
				t.Errorf("%s from %s: expected rejection", tc.name, state)
			}
		}
	}
}
