package services

import (
	"database/sql"
	"strings"

	"github.com/chiromo-health/cmhs-backend/internal/database"
	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/google/uuid"
)

// MessageStore persists direct messages. Like the payments TransactionStore,
// the seam exists so the thread semantics (read-marking, tombstones) can be
// exercised without a live database.
type MessageStore interface {
	Insert(m *models.Message) error
	MarkThreadRead(recipientID, senderID uuid.UUID) error
	ListThread(a, b uuid.UUID) ([]models.Message, error)
	Get(id uuid.UUID) (*models.Message, error)
	UpdateBody(id uuid.UUID, body string) error
	Tombstone(id uuid.UUID) error
	ListContacts(userID uuid.UUID) ([]models.User, error)
}

var messageStore MessageStore = postgresMessageStore{}

// Message permission rules, pure so they can be checked without a round trip.

// CanEditMessage: only the original sender, and never once tombstoned.
func CanEditMessage(actorID uuid.UUID, msg *models.Message) error {
	if actorID != msg.SenderID {
		return ErrUnauthorized
	}
	if msg.IsDeleted {
		return ErrInvalidState
	}
	return nil
}

// CanDeleteMessage: only the original sender; deleting twice is rejected.
func CanDeleteMessage(actorID uuid.UUID, msg *models.Message) error {
	return CanEditMessage(actorID, msg)
}

// SendMessage appends an unread message to the thread between sender and
// recipient. Timestamps are server-side.
func SendMessage(senderID, recipientID uuid.UUID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" || senderID == recipientID {
		return nil, ErrValidation
	}

	recipientRole, err := GetUserRole(recipientID)
	if err != nil {
		return nil, err
	}
	if recipientRole == "" {
		return nil, ErrNotFound
	}

	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	if err := messageStore.Insert(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// FetchThread returns the full ordered history between the requester and a
// partner and, as a side effect, marks everything addressed to the requester
// in that thread as read. The read-marking runs before the select so the
// returned rows reflect it.
func FetchThread(requesterID, partnerID uuid.UUID) ([]models.Message, error) {
	if err := messageStore.MarkThreadRead(requesterID, partnerID); err != nil {
		return nil, err
	}
	return messageStore.ListThread(requesterID, partnerID)
}

// EditMessage overwrites the body of a message the actor sent. No time limit.
func EditMessage(messageID, actorID uuid.UUID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrValidation
	}

	msg, err := messageStore.Get(messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	if err := CanEditMessage(actorID, msg); err != nil {
		return nil, err
	}

	if err := messageStore.UpdateBody(messageID, body); err != nil {
		return nil, err
	}
	msg.Body = body
	return msg, nil
}

// DeleteMessage soft-deletes: the row stays, the body becomes the tombstone
// and the message can no longer be edited or deleted again.
func DeleteMessage(messageID, actorID uuid.UUID) error {
	msg, err := messageStore.Get(messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrNotFound
	}
	if err := CanDeleteMessage(actorID, msg); err != nil {
		return err
	}
	return messageStore.Tombstone(messageID)
}

// ListContacts returns the distinct counterparties across everything the
// user has sent or received, excluding the user themselves.
func ListContacts(userID uuid.UUID) ([]models.User, error) {
	return messageStore.ListContacts(userID)
}

// postgresMessageStore is the production MessageStore on the global handle.
type postgresMessageStore struct{}

func (postgresMessageStore) Insert(m *models.Message) error {
	return database.PostgresDB.QueryRow(`
		INSERT INTO messages (sender_id, recipient_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, m.SenderID, m.RecipientID, m.Body).Scan(&m.ID, &m.CreatedAt)
}

func (postgresMessageStore) MarkThreadRead(recipientID, senderID uuid.UUID) error {
	_, err := database.PostgresDB.Exec(`
		UPDATE messages SET is_read = TRUE
		WHERE recipient_id = $1 AND sender_id = $2 AND is_read = FALSE
	`, recipientID, senderID)
	return err
}

func (postgresMessageStore) ListThread(a, b uuid.UUID) ([]models.Message, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, created_at, sender_id, recipient_id, body, is_read, is_deleted
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC
	`, a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.SenderID, &m.RecipientID, &m.Body, &m.IsRead, &m.IsDeleted); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (postgresMessageStore) Get(id uuid.UUID) (*models.Message, error) {
	m := &models.Message{}
	err := database.PostgresDB.QueryRow(`
		SELECT id, created_at, sender_id, recipient_id, body, is_read, is_deleted
		FROM messages WHERE id = $1
	`, id).Scan(&m.ID, &m.CreatedAt, &m.SenderID, &m.RecipientID, &m.Body, &m.IsRead, &m.IsDeleted)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (postgresMessageStore) UpdateBody(id uuid.UUID, body string) error {
	_, err := database.PostgresDB.Exec(`
		UPDATE messages SET body = $1 WHERE id = $2 AND is_deleted = FALSE
	`, body, id)
	return err
}

func (postgresMessageStore) Tombstone(id uuid.UUID) error {
	_, err := database.PostgresDB.Exec(`
		UPDATE messages SET body = $1, is_deleted = TRUE WHERE id = $2 AND is_deleted = FALSE
	`, models.MessageTombstone, id)
	return err
}

func (postgresMessageStore) ListContacts(userID uuid.UUID) ([]models.User, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT DISTINCT u.id, u.username, u.role, COALESCE(u.specialization, '')
		FROM users u
		JOIN messages m ON (m.sender_id = u.id AND m.recipient_id = $1)
		              OR (m.recipient_id = u.id AND m.sender_id = $1)
		WHERE u.id <> $1 AND u.is_active = TRUE
		ORDER BY u.username
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.Specialization); err != nil {
			return nil, err
		}
		contacts = append(contacts, u)
	}
	return contacts, rows.Err()
}
