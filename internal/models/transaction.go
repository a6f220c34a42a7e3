package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction statuses
const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionFailed    = "failed"
)

// Transaction records an M-Pesa premium payment. CheckoutRequestID correlates
// the synchronous STK push response with the asynchronous gateway callback;
// exactly one of the two paths may move a transaction out of pending.
type Transaction struct {
	ID                uuid.UUID  `json:"id"`
	CreatedAt         time.Time  `json:"created_at"`
	UserID            uuid.UUID  `json:"user_id"`
	AppointmentID     *uuid.UUID `json:"appointment_id,omitempty"`
	Phone             string     `json:"phone"`
	Amount            int        `json:"amount"`
	CheckoutRequestID string     `json:"checkout_request_id,omitempty"`
	Status            string     `json:"status"`
}
