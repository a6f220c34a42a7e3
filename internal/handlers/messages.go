package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/chiromo-health/cmhs-backend/internal/services"
	"github.com/google/uuid"
)

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
}

type MessageResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    *models.Message `json:"data,omitempty"`
}

type ThreadResponse struct {
	Success  bool             `json:"success"`
	Messages []models.Message `json:"messages"`
}

// SendMessage appends a message to the thread with the recipient.
func SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid recipient")
		return
	}

	msg, err := services.SendMessage(userID, recipientID, req.Body)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, MessageResponse{Success: true, Message: "Sent", Data: msg})
}

// GetThread returns the full history with ?partner_id= and marks messages
// addressed to the caller as read.
func GetThread(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	partnerID, err := uuid.Parse(r.URL.Query().Get("partner_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid partner")
		return
	}

	msgs, err := services.FetchThread(userID, partnerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load messages")
		return
	}

	respondJSON(w, http.StatusOK, ThreadResponse{Success: true, Messages: msgs})
}

type EditMessageRequest struct {
	MessageID string `json:"message_id"`
	Body      string `json:"body"`
}

// EditMessage overwrites the body of a message the caller sent.
func EditMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	messageID, err := uuid.Parse(req.MessageID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid message")
		return
	}

	msg, err := services.EditMessage(messageID, userID, req.Body)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Updated", Data: msg})
}

type DeleteMessageRequest struct {
	MessageID string `json:"message_id"`
}

// DeleteMessage soft-deletes a message the caller sent; the thread keeps a
// tombstone in its place.
func DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req DeleteMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	messageID, err := uuid.Parse(req.MessageID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid message")
		return
	}

	if err := services.DeleteMessage(messageID, userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Deleted"})
}

type ContactListResponse struct {
	Success  bool          `json:"success"`
	Contacts []models.User `json:"contacts"`
}

// ListContacts returns everyone the caller has exchanged messages with.
func ListContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	contacts, err := services.ListContacts(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load contacts")
		return
	}

	respondJSON(w, http.StatusOK, ContactListResponse{Success: true, Contacts: contacts})
}
