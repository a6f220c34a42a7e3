package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/chiromo-health/cmhs-backend/internal/services"
)

type SignupRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"` // patient or therapist
	Specialization string `json:"specialization,omitempty"`
}

type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}

// Signup registers a patient or therapist account.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Role == "" {
		req.Role = models.RolePatient
	}

	user, err := services.CreateUser(req.Username, req.Password, req.Email, req.Phone, req.Role, req.Specialization)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			respondError(w, http.StatusConflict, "Username or phone number already registered")
			return
		}
		if errors.Is(err, services.ErrValidation) {
			respondError(w, http.StatusBadRequest, "Username, phone and a password of at least 8 characters are required")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := services.CreateSession(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Account created but session failed. Please sign in.")
		return
	}

	respondJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		User:    user,
		Token:   token,
	})
}

// Signin authenticates a user and returns a session token.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := services.AuthenticateUser(req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := services.CreateSession(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Signed in successfully",
		User:    user,
		Token:   token,
	})
}

// GetMe returns the authenticated user's profile.
func GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := services.GetUserByID(userID)
	if err != nil || user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "OK", User: user})
}

// Signout invalidates the current session.
func Signout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token != "" {
		services.InvalidateSession(token)
	}
	respondJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Signed out"})
}
