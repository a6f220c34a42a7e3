package services

import (
	"github.com/chiromo-health/cmhs-backend/internal/database"
	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MoodStore persists mood entries. Insert returns ErrConflict when the
// patient already logged a mood for the entry's calendar day.
type MoodStore interface {
	Insert(e *models.MoodEntry) error
	ListRecent(patientID uuid.UUID, limit int) ([]models.MoodEntry, error)
}

var moodStore MoodStore = postgresMoodStore{}

// LogMood records today's mood for a patient. The one-mood-per-day rule is
// enforced by the store, so the operation is idempotent under concurrent
// requests.
func LogMood(patientID uuid.UUID, mood string) (*models.MoodEntry, error) {
	if !models.IsValidMood(mood) {
		return nil, ErrValidation
	}

	entry := &models.MoodEntry{
		PatientID: patientID,
		Mood:      mood,
	}
	if err := moodStore.Insert(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListRecentMoods returns the patient's latest mood entries for the
// dashboard, newest first.
func ListRecentMoods(patientID uuid.UUID, limit int) ([]models.MoodEntry, error) {
	if limit <= 0 || limit > 90 {
		limit = 30
	}
	return moodStore.ListRecent(patientID, limit)
}

// postgresMoodStore backs moods with the mood_entries table; the unique
// index on (patient_id, entry_date) is the idempotency guard.
type postgresMoodStore struct{}

func (postgresMoodStore) Insert(e *models.MoodEntry) error {
	err := database.PostgresDB.QueryRow(`
		INSERT INTO mood_entries (patient_id, mood)
		VALUES ($1, $2)
		RETURNING id, created_at, TO_CHAR(entry_date, 'YYYY-MM-DD')
	`, e.PatientID, e.Mood).Scan(&e.ID, &e.CreatedAt, &e.EntryDate)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (postgresMoodStore) ListRecent(patientID uuid.UUID, limit int) ([]models.MoodEntry, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, created_at, patient_id, mood, TO_CHAR(entry_date, 'YYYY-MM-DD')
		FROM mood_entries
		WHERE patient_id = $1
		ORDER BY entry_date DESC
		LIMIT $2
	`, patientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.MoodEntry{}
	for rows.Next() {
		var e models.MoodEntry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.PatientID, &e.Mood, &e.EntryDate); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
