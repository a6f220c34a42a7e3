package services

import (
	"database/sql"
	"strings"

	"github.com/chiromo-health/cmhs-backend/internal/database"
	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/chiromo-health/cmhs-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CreateUser registers a new account. Role must be patient or therapist;
// admin accounts are created directly in the database.
func CreateUser(username, password, email, phone, role, specialization string) (*models.User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	phone = strings.TrimSpace(phone)

	if username == "" || password == "" || phone == "" {
		return nil, ErrValidation
	}
	if len(password) < 8 {
		return nil, ErrValidation
	}
	if role != models.RolePatient && role != models.RoleTherapist {
		return nil, ErrValidation
	}
	if role == models.RoleTherapist {
		if specialization == "" {
			specialization = "general"
		}
		if !models.IsValidSpecialization(specialization) {
			return nil, ErrValidation
		}
	} else {
		specialization = ""
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       username,
		Email:          strings.TrimSpace(email),
		Phone:          phone,
		Role:           role,
		Specialization: specialization,
		IsActive:       true,
	}

	err = database.PostgresDB.QueryRow(`
		INSERT INTO users (username, password_hash, email, phone, role, specialization)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, created_at
	`, username, passwordHash, user.Email, phone, role, specialization).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		// Unique violation on username or phone
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, err
	}

	return user, nil
}

// AuthenticateUser verifies credentials and returns the user on success.
func AuthenticateUser(username, password string) (*models.User, error) {
	username = strings.TrimSpace(strings.ToLower(username))

	user, err := getUserBy("LOWER(username) = $1", username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !valid {
		return nil, ErrUnauthorized
	}

	return user, nil
}

// GetUserByID returns the active user with the given ID, or nil if none.
func GetUserByID(userID uuid.UUID) (*models.User, error) {
	return getUserBy("id = $1", userID)
}

// GetUserRole returns the role of an active user, or "" if the user does not exist.
func GetUserRole(userID uuid.UUID) (string, error) {
	var role string
	err := database.PostgresDB.QueryRow(`
		SELECT role FROM users WHERE id = $1 AND is_active = TRUE
	`, userID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return role, nil
}

// GrantPremium flips the premium flag for a user. Idempotent.
func GrantPremium(userID uuid.UUID) error {
	_, err := database.PostgresDB.Exec(`
		UPDATE users SET is_premium = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	return err
}

// ListTherapists returns all active therapist accounts for the booking form.
func ListTherapists() ([]models.User, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, created_at, username, email, phone, COALESCE(specialization, ''), is_verified
		FROM users
		WHERE role = 'therapist' AND is_active = TRUE
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	therapists := []models.User{}
	for rows.Next() {
		u := models.User{Role: models.RoleTherapist, IsActive: true}
		if err := rows.Scan(&u.ID, &u.CreatedAt, &u.Username, &u.Email, &u.Phone, &u.Specialization, &u.IsVerified); err != nil {
			return nil, err
		}
		therapists = append(therapists, u)
	}
	return therapists, rows.Err()
}

func getUserBy(where string, arg interface{}) (*models.User, error) {
	u := &models.User{}
	err := database.PostgresDB.QueryRow(`
		SELECT id, created_at, updated_at, username, password_hash, email, phone, role,
		       COALESCE(specialization, ''), is_premium, is_verified, is_active
		FROM users
		WHERE `+where+` AND is_active = TRUE
	`, arg).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Username, &u.PasswordHash, &u.Email,
		&u.Phone, &u.Role, &u.Specialization, &u.IsPremium, &u.IsVerified, &u.IsActive)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}
