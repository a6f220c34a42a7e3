package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RolePatient   = "patient"
	RoleTherapist = "therapist"
	RoleAdmin     = "admin"
)

// Therapist specializations shown on the booking form
var Specializations = []string{
	"general",   // General Counselor
	"clinical",  // Clinical Psychologist
	"family",    // Family & Marriage Therapist
	"addiction", // Addiction Specialist
	"child",     // Child & Adolescent Therapist
	"trauma",    // Trauma Specialist
}

type User struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Role           string    `json:"role"`
	Specialization string    `json:"specialization,omitempty"`
	IsPremium      bool      `json:"is_premium"`
	IsVerified     bool      `json:"is_verified"`
	IsActive       bool      `json:"is_active"`
}

// IsValidSpecialization reports whether s is one of the known specializations.
func IsValidSpecialization(s string) bool {
	for _, v := range Specializations {
		if v == s {
			return true
		}
	}
	return false
}
