package services

import (
	"errors"
	"testing"
	"time"

	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/google/uuid"
)

// fakeMoodStore enforces the one-mood-per-day rule the same way the unique
// index does.
type fakeMoodStore struct {
	entries map[string]*models.MoodEntry // patientID + date
}

func newFakeMoodStore() *fakeMoodStore {
	return &fakeMoodStore{entries: map[string]*models.MoodEntry{}}
}

func (s *fakeMoodStore) Insert(e *models.MoodEntry) error {
	date := time.Now().Format("2006-01-02")
	key := e.PatientID.String() + "/" + date
	if _, ok := s.entries[key]; ok {
		return ErrConflict
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.EntryDate = date
	cp := *e
	s.entries[key] = &cp
	return nil
}

func (s *fakeMoodStore) ListRecent(patientID uuid.UUID, limit int) ([]models.MoodEntry, error) {
	out := []models.MoodEntry{}
	for _, e := range s.entries {
		if e.PatientID == patientID && len(out) < limit {
			out = append(out, *e)
		}
	}
	return out, nil
}

func installFakeMoodStore(t *testing.T) *fakeMoodStore {
	t.Helper()
	store := newFakeMoodStore()
	prev := moodStore
	moodStore = store
	t.Cleanup(func() { moodStore = prev })
	return store
}

func TestLogMoodOncePerDay(t *testing.T) {
	installFakeMoodStore(t)
	patientID := uuid.New()

	entry, err := LogMood(patientID, "calm")
	if err != nil {
		t.Fatalf("LogMood: %v", err)
	}
	if entry.Mood != "calm" || entry.EntryDate == "" {
		t.Errorf("entry = %+v", entry)
	}

	// Same day, any mood: rejected, the first entry stands
	if _, err := LogMood(patientID, "anxious"); !errors.Is(err, ErrConflict) {
		t.Errorf("second mood same day: expected ErrConflict, got %v", err)
	}

	entries, err := ListRecentMoods(patientID, 30)
	if err != nil {
		t.Fatalf("ListRecentMoods: %v", err)
	}
	if len(entries) != 1 || entries[0].Mood != "calm" {
		t.Errorf("entries = %+v, want the single original entry", entries)
	}
}

func TestLogMoodPerPatientIsolation(t *testing.T) {
	installFakeMoodStore(t)
	a, b := uuid.New(), uuid.New()

	if _, err := LogMood(a, "happy"); err != nil {
		t.Fatalf("LogMood(a): %v", err)
	}
	// Another patient's entry on the same day is not a conflict
	if _, err := LogMood(b, "happy"); err != nil {
		t.Errorf("LogMood(b): %v", err)
	}
}

func TestLogMoodRejectsUnknownMood(t *testing.T) {
	installFakeMoodStore(t)
	if _, err := LogMood(uuid.New(), "euphoric"); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown mood: expected ErrValidation, got %v", err)
	}
}
