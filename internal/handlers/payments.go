package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/chiromo-health/cmhs-backend/internal/services"
)

type InitiatePaymentRequest struct {
	Phone string `json:"phone"`
}

type PaymentResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message,omitempty"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// InitiatePayment pushes an M-Pesa payment to the caller's phone to unlock
// premium access.
func InitiatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Phone == "" {
		respondError(w, http.StatusBadRequest, "Please enter a phone number")
		return
	}

	tx, err := paymentService.Initiate(r.Context(), userID, req.Phone)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, PaymentResponse{
		Success:     true,
		Message:     "Payment confirmed. Premium unlocked!",
		Transaction: tx,
	})
}

// MpesaCallbackBody mirrors the gateway's nested JSON payload.
type MpesaCallbackBody struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// MpesaCallback is the asynchronous payment confirmation endpoint. It always
// acknowledges with 200: the gateway must never retry-storm on an
// application-level mismatch, so malformed payloads and unknown checkout
// references are logged inside Reconcile and dropped.
func MpesaCallback(w http.ResponseWriter, r *http.Request) {
	ack := func() {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}

	var payload MpesaCallbackBody
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		ack()
		return
	}

	stk := payload.Body.StkCallback
	if err := paymentService.Reconcile(stk.CheckoutRequestID, stk.ResultCode); err != nil {
		// Logged server-side; the gateway still gets its acknowledgment
		ack()
		return
	}

	ack()
}

// PaymentStatusResponse reports premium status for the pricing page.
type PaymentStatusResponse struct {
	Success   bool `json:"success"`
	IsPremium bool `json:"is_premium"`
}

// PaymentStatus returns whether the caller already has premium access.
func PaymentStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := services.GetUserByID(userID)
	if err != nil || user == nil {
		respondError(w, http.StatusInternalServerError, "Failed to load account")
		return
	}

	respondJSON(w, http.StatusOK, PaymentStatusResponse{Success: true, IsPremium: user.IsPremium})
}
