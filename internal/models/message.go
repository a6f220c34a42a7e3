package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageTombstone replaces the body of a soft-deleted message. The row is
// kept so threads never renumber and moderation can audit history.
const MessageTombstone = "This message was deleted"

type Message struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	SenderID    uuid.UUID `json:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Body        string    `json:"body"`
	IsRead      bool      `json:"is_read"`
	IsDeleted   bool      `json:"is_deleted"`
}
