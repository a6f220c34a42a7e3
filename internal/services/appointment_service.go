package services

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/chiromo-health/cmhs-backend/internal/database"
	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AppointmentStore persists appointments and session logs. TransitionStatus
// is guarded: it only applies when the row still holds the expected status,
// so concurrent transition requests resolve to exactly one winner.
type AppointmentStore interface {
	Insert(a *models.Appointment) error
	Get(id uuid.UUID) (*models.Appointment, error)
	TransitionStatus(id uuid.UUID, from, next string) (bool, error)
	HasSessionLog(appointmentID uuid.UUID) (bool, error)
	InsertSessionLog(l *models.SessionLog) error
	ListByPatient(patientID uuid.UUID) ([]models.Appointment, error)
	ListByTherapist(therapistID uuid.UUID) ([]models.Appointment, error)
	ListPatients(therapistID uuid.UUID) ([]models.User, error)
}

var (
	appointmentStore AppointmentStore = postgresAppointmentStore{}

	// Role lookups go through a variable so the lifecycle can be exercised
	// without a user table.
	lookupUserRole = GetUserRole
)

// BookAppointment creates a pending appointment request from a patient.
// Online sessions get a unique meeting link up front so the confirmation
// email can include it. The confirmation email is fire-and-forget.
func BookAppointment(patientID, therapistID uuid.UUID, date, timeSlot, mode, notes string, notifier *Notifier) (*models.Appointment, error) {
	date = strings.TrimSpace(date)
	timeSlot = strings.TrimSpace(timeSlot)
	if date == "" || timeSlot == "" || !models.IsValidMode(mode) {
		return nil, ErrValidation
	}

	// The therapist reference must actually be a therapist account
	role, err := lookupUserRole(therapistID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleTherapist {
		return nil, ErrValidation
	}

	appt := &models.Appointment{
		PatientID:   patientID,
		TherapistID: therapistID,
		Date:        date,
		Time:        timeSlot,
		Mode:        mode,
		Status:      models.AppointmentPending,
		Notes:       strings.TrimSpace(notes),
	}
	if mode == models.ModeOnline {
		appt.MeetingLink = "https://meet.chiromo.co.ke/session/" + uuid.NewString()
	}

	if err := appointmentStore.Insert(appt); err != nil {
		return nil, err
	}

	if notifier != nil {
		if patient, err := GetUserByID(patientID); err == nil && patient != nil {
			link := appt.MeetingLink
			if link == "" {
				link = "Pending"
			}
			body := fmt.Sprintf(
				"Dear %s,\n\nYour appointment has been successfully booked.\n\nDate: %s\nTime: %s\nLink: %s\n\nThank you for choosing Chiromo.",
				patient.Username, appt.Date, appt.Time, link)
			notifier.SendEmailAsync(patient.Email, "Appointment Booked - Chiromo Mental Health", body)
		}
	}

	return appt, nil
}

// ApproveAppointment moves a pending appointment to confirmed. Only the
// assigned therapist may approve.
func ApproveAppointment(appointmentID, actorID uuid.UUID) (*models.Appointment, error) {
	return transitionAppointment(appointmentID, actorID, CanApprove, models.AppointmentConfirmed)
}

// DeclineAppointment moves a pending appointment to cancelled, on the
// assigned therapist's request.
func DeclineAppointment(appointmentID, actorID uuid.UUID) (*models.Appointment, error) {
	return transitionAppointment(appointmentID, actorID, CanDecline, models.AppointmentCancelled)
}

// CancelAppointment is patient-initiated and only valid while pending.
func CancelAppointment(appointmentID, actorID uuid.UUID) (*models.Appointment, error) {
	return transitionAppointment(appointmentID, actorID, CanCancel, models.AppointmentCancelled)
}

func transitionAppointment(appointmentID, actorID uuid.UUID, rule func(uuid.UUID, *models.Appointment) error, next string) (*models.Appointment, error) {
	appt, err := appointmentStore.Get(appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrNotFound
	}
	if err := rule(actorID, appt); err != nil {
		return nil, err
	}

	// Guarded update: a no-op if a concurrent request already moved the
	// appointment on.
	applied, err := appointmentStore.TransitionStatus(appointmentID, appt.Status, next)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrInvalidState
	}

	appt.Status = next
	return appt, nil
}

// LogSession records the therapist's confidential notes for a confirmed
// appointment and completes it. One log per appointment.
func LogSession(appointmentID, actorID uuid.UUID, notes, resourceURL string) (*models.SessionLog, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, ErrValidation
	}

	appt, err := appointmentStore.Get(appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrNotFound
	}
	if err := CanLogSession(actorID, appt); err != nil {
		return nil, err
	}

	exists, err := appointmentStore.HasSessionLog(appointmentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	entry := &models.SessionLog{
		AppointmentID: appointmentID,
		TherapistID:   appt.TherapistID,
		PatientID:     appt.PatientID,
		Notes:         notes,
		ResourceURL:   resourceURL,
	}
	if err := appointmentStore.InsertSessionLog(entry); err != nil {
		return nil, err
	}

	if _, err := appointmentStore.TransitionStatus(appointmentID, models.AppointmentConfirmed, models.AppointmentCompleted); err != nil {
		// The log exists either way; completion is retried on the next read path
		log.Printf("failed to complete appointment %s after session log: %v", appointmentID, err)
	}

	return entry, nil
}

// GetAppointment returns the appointment with the given ID, or nil if none.
func GetAppointment(appointmentID uuid.UUID) (*models.Appointment, error) {
	return appointmentStore.Get(appointmentID)
}

// ListAppointmentsByPatient returns a patient's appointments, newest first.
func ListAppointmentsByPatient(patientID uuid.UUID) ([]models.Appointment, error) {
	return appointmentStore.ListByPatient(patientID)
}

// ListAppointmentsByTherapist returns a therapist's appointments, newest first.
func ListAppointmentsByTherapist(therapistID uuid.UUID) ([]models.Appointment, error) {
	return appointmentStore.ListByTherapist(therapistID)
}

// ListPatientsOfTherapist returns the distinct patients who have booked with
// this therapist.
func ListPatientsOfTherapist(therapistID uuid.UUID) ([]models.User, error) {
	return appointmentStore.ListPatients(therapistID)
}

// postgresAppointmentStore is the production AppointmentStore on the global
// handle.
type postgresAppointmentStore struct{}

func (postgresAppointmentStore) Insert(a *models.Appointment) error {
	return database.PostgresDB.QueryRow(`
		INSERT INTO appointments (patient_id, therapist_id, date, time, mode, status, meeting_link, notes)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		RETURNING id, created_at
	`, a.PatientID, a.TherapistID, a.Date, a.Time, a.Mode, a.Status, a.MeetingLink, a.Notes).
		Scan(&a.ID, &a.CreatedAt)
}

func (postgresAppointmentStore) Get(id uuid.UUID) (*models.Appointment, error) {
	a := &models.Appointment{}
	var meetingLink, notes sql.NullString
	err := database.PostgresDB.QueryRow(`
		SELECT id, created_at, patient_id, therapist_id,
		       TO_CHAR(date, 'YYYY-MM-DD'), TO_CHAR(time, 'HH24:MI'),
		       mode, status, meeting_link, notes
		FROM appointments WHERE id = $1
	`, id).Scan(&a.ID, &a.CreatedAt, &a.PatientID, &a.TherapistID,
		&a.Date, &a.Time, &a.Mode, &a.Status, &meetingLink, &notes)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	a.MeetingLink = meetingLink.String
	a.Notes = notes.String
	return a, nil
}

func (postgresAppointmentStore) TransitionStatus(id uuid.UUID, from, next string) (bool, error) {
	res, err := database.PostgresDB.Exec(`
		UPDATE appointments SET status = $1 WHERE id = $2 AND status = $3
	`, next, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (postgresAppointmentStore) HasSessionLog(appointmentID uuid.UUID) (bool, error) {
	var exists bool
	err := database.PostgresDB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM session_logs WHERE appointment_id = $1)
	`, appointmentID).Scan(&exists)
	return exists, err
}

func (postgresAppointmentStore) InsertSessionLog(l *models.SessionLog) error {
	err := database.PostgresDB.QueryRow(`
		INSERT INTO session_logs (appointment_id, therapist_id, patient_id, notes, resource_url)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id, TO_CHAR(session_date, 'YYYY-MM-DD')
	`, l.AppointmentID, l.TherapistID, l.PatientID, l.Notes, l.ResourceURL).
		Scan(&l.ID, &l.SessionDate)
	if err != nil {
		// The unique constraint on appointment_id catches a concurrent double-log
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (postgresAppointmentStore) ListByPatient(patientID uuid.UUID) ([]models.Appointment, error) {
	return listAppointments("patient_id = $1", patientID)
}

func (postgresAppointmentStore) ListByTherapist(therapistID uuid.UUID) ([]models.Appointment, error) {
	return listAppointments("therapist_id = $1", therapistID)
}

func (postgresAppointmentStore) ListPatients(therapistID uuid.UUID) ([]models.User, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT DISTINCT u.id, u.username, u.email, u.phone
		FROM users u
		JOIN appointments a ON a.patient_id = u.id
		WHERE a.therapist_id = $1 AND u.is_active = TRUE
		ORDER BY u.username
	`, therapistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := []models.User{}
	for rows.Next() {
		u := models.User{Role: models.RolePatient}
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Phone); err != nil {
			return nil, err
		}
		patients = append(patients, u)
	}
	return patients, rows.Err()
}

func listAppointments(where string, arg interface{}) ([]models.Appointment, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, created_at, patient_id, therapist_id,
		       TO_CHAR(date, 'YYYY-MM-DD'), TO_CHAR(time, 'HH24:MI'),
		       mode, status, meeting_link, notes
		FROM appointments
		WHERE `+where+`
		ORDER BY date DESC, time DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appts := []models.Appointment{}
	for rows.Next() {
		var a models.Appointment
		var meetingLink, notes sql.NullString
		if err := rows.Scan(&a.ID, &a.CreatedAt, &a.PatientID, &a.TherapistID,
			&a.Date, &a.Time, &a.Mode, &a.Status, &meetingLink, &notes); err != nil {
			return nil, err
		}
		a.MeetingLink = meetingLink.String
		a.Notes = notes.String
		appts = append(appts, a)
	}
	return appts, rows.Err()
}
