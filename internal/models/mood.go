package models

import (
	"time"

	"github.com/google/uuid"
)

// Moods a patient can log, one per calendar day
var Moods = []string{"happy", "calm", "neutral", "sad", "anxious", "angry"}

type MoodEntry struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	PatientID uuid.UUID `json:"patient_id"`
	Mood      string    `json:"mood"`
	EntryDate string    `json:"entry_date"` // YYYY-MM-DD
}

// IsValidMood reports whether mood is one of the supported mood values.
func IsValidMood(mood string) bool {
	for _, m := range Moods {
		if m == mood {
			return true
		}
	}
	return false
}
