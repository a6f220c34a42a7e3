package models

import (
	"time"

	"github.com/google/uuid"
)

// Self-assessment test types
const (
	TestDepression = "depression" // PHQ-9 style, 9 questions
	TestAnxiety    = "anxiety"    // GAD-7 style, 7 questions
	TestBipolar    = "bipolar"    // MDQ style, 13 questions
	TestSubstance  = "substance"  // DAST style, 10 questions
)

// Severity buckets
const (
	SeverityMinimal  = "minimal"
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// AssessmentResult is persisted only for authenticated patients; guest
// results live in Redis for a short window and are shown once.
type AssessmentResult struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
	TestType  string     `json:"test_type"`
	Score     int        `json:"score"`
	Severity  string     `json:"severity"`
}
