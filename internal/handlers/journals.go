package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/chiromo-health/cmhs-backend/internal/database"
	"github.com/chiromo-health/cmhs-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateJournalRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type JournalResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Journal *models.Journal `json:"journal,omitempty"`
}

type JournalListResponse struct {
	Success  bool             `json:"success"`
	Journals []models.Journal `json:"journals"`
	Total    int64            `json:"total"`
}

// CreateJournal creates a journal entry for the authenticated patient.
func CreateJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" && req.Content == "" {
		respondError(w, http.StatusBadRequest, "Title or content is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	journal := models.Journal{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		PatientID: userID.String(),
		Title:     req.Title,
		Content:   req.Content,
	}

	if _, err := database.DB.Collection("journals").InsertOne(ctx, journal); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create journal entry")
		return
	}

	respondJSON(w, http.StatusCreated, JournalResponse{Success: true, Message: "Journal created", Journal: &journal})
}

// ListJournals returns the authenticated patient's journal entries, newest
// first, paginated with limit/skip.
func ListJournals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := int64(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	skip := int64(0)
	if v := r.URL.Query().Get("skip"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			skip = parsed
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	col := database.DB.Collection("journals")
	filter := bson.M{"patient_id": userID.String()}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load journals")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load journals")
		return
	}
	defer cur.Close(ctx)

	journals := []models.Journal{}
	for cur.Next(ctx) {
		var j models.Journal
		if err := cur.Decode(&j); err != nil {
			continue
		}
		journals = append(journals, j)
	}

	respondJSON(w, http.StatusOK, JournalListResponse{Success: true, Journals: journals, Total: total})
}
