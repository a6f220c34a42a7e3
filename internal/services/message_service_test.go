package services

import (
	"errors"
	"testing"
	"time"

	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/google/uuid"
)

// fakeMessageStore keeps the thread in a slice, in insertion order.
type fakeMessageStore struct {
	msgs []*models.Message
}

func (s *fakeMessageStore) Insert(m *models.Message) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	cp := *m
	s.msgs = append(s.msgs, &cp)
	return nil
}

func (s *fakeMessageStore) MarkThreadRead(recipientID, senderID uuid.UUID) error {
	for _, m := range s.msgs {
		if m.RecipientID == recipientID && m.SenderID == senderID {
			m.IsRead = true
		}
	}
	return nil
}

func (s *fakeMessageStore) ListThread(a, b uuid.UUID) ([]models.Message, error) {
	out := []models.Message{}
	for _, m := range s.msgs {
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *fakeMessageStore) Get(id uuid.UUID) (*models.Message, error) {
	for _, m := range s.msgs {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeMessageStore) UpdateBody(id uuid.UUID, body string) error {
	for _, m := range s.msgs {
		if m.ID == id && !m.IsDeleted {
			m.Body = body
		}
	}
	return nil
}

func (s *fakeMessageStore) Tombstone(id uuid.UUID) error {
	for _, m := range s.msgs {
		if m.ID == id && !m.IsDeleted {
			m.Body = models.MessageTombstone
			m.IsDeleted = true
		}
	}
	return nil
}

func (s *fakeMessageStore) ListContacts(userID uuid.UUID) ([]models.User, error) {
	return nil, nil
}

func installFakeMessageStore(t *testing.T) *fakeMessageStore {
	t.Helper()
	store := &fakeMessageStore{}
	prev := messageStore
	messageStore = store
	t.Cleanup(func() { messageStore = prev })
	return store
}

func seedMessage(store *fakeMessageStore, from, to uuid.UUID, body string) uuid.UUID {
	m := &models.Message{SenderID: from, RecipientID: to, Body: body}
	store.Insert(m)
	return m.ID
}

func TestCanEditMessage(t *testing.T) {
	senderID := uuid.New()
	msg := &models.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: uuid.New(),
		Body:        "hello",
	}

	if err := CanEditMessage(senderID, msg); err != nil {
		t.Errorf("sender editing own message: expected nil, got %v", err)
	}
	if err := CanEditMessage(msg.RecipientID, msg); err != ErrUnauthorized {
		t.Errorf("recipient editing: expected ErrUnauthorized, got %v", err)
	}
	if err := CanEditMessage(uuid.New(), msg); err != ErrUnauthorized {
		t.Errorf("stranger editing: expected ErrUnauthorized, got %v", err)
	}
}

func TestTombstonedMessageIsFrozen(t *testing.T) {
	senderID := uuid.New()
	msg := &models.Message{
		ID:        uuid.New(),
		SenderID:  senderID,
		Body:      models.MessageTombstone,
		IsDeleted: true,
	}

	if err := CanEditMessage(senderID, msg); err != ErrInvalidState {
		t.Errorf("editing a tombstone: expected ErrInvalidState, got %v", err)
	}
	if err := CanDeleteMessage(senderID, msg); err != ErrInvalidState {
		t.Errorf("deleting a tombstone twice: expected ErrInvalidState, got %v", err)
	}
	// Authorization still wins over state for the wrong actor
	if err := CanDeleteMessage(uuid.New(), msg); err != ErrUnauthorized {
		t.Errorf("stranger deleting tombstone: expected ErrUnauthorized, got %v", err)
	}
}

func TestFetchThreadMarksMessagesToRequesterRead(t *testing.T) {
	store := installFakeMessageStore(t)
	alice, bob := uuid.New(), uuid.New()

	seedMessage(store, bob, alice, "hi Alice")
	outgoing := seedMessage(store, alice, bob, "hi back")
	seedMessage(store, bob, alice, "how are you?")

	msgs, err := FetchThread(alice, bob)
	if err != nil {
		t.Fatalf("FetchThread: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("thread length = %d, want 3", len(msgs))
	}
	for _, m := range msgs {
		if m.RecipientID == alice && !m.IsRead {
			t.Errorf("message %s to requester still unread after fetch", m.ID)
		}
		if m.ID == outgoing && m.IsRead {
			t.Errorf("requester's own outgoing message was marked read")
		}
	}
}

func TestFetchThreadLeavesOtherThreadsUnread(t *testing.T) {
	store := installFakeMessageStore(t)
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	seedMessage(store, bob, alice, "from bob")
	fromCarol := seedMessage(store, carol, alice, "from carol")

	if _, err := FetchThread(alice, bob); err != nil {
		t.Fatalf("FetchThread: %v", err)
	}

	msg, _ := store.Get(fromCarol)
	if msg.IsRead {
		t.Error("fetching the Bob thread marked Carol's message read")
	}
}

func TestDeleteMessageLeavesTombstone(t *testing.T) {
	store := installFakeMessageStore(t)
	alice, bob := uuid.New(), uuid.New()
	msgID := seedMessage(store, alice, bob, "sent in anger")

	if err := DeleteMessage(msgID, alice); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}

	msgs, err := FetchThread(bob, alice)
	if err != nil {
		t.Fatalf("FetchThread: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("tombstone should keep the thread position, got %d messages", len(msgs))
	}
	if msgs[0].Body != models.MessageTombstone || !msgs[0].IsDeleted {
		t.Errorf("deleted message = %+v, want tombstone body", msgs[0])
	}

	// A tombstone is terminal: no second delete, no edit
	if err := DeleteMessage(msgID, alice); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second delete: expected ErrInvalidState, got %v", err)
	}
	if _, err := EditMessage(msgID, alice, "take it back"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("editing tombstone: expected ErrInvalidState, got %v", err)
	}
}

func TestEditMessageRules(t *testing.T) {
	store := installFakeMessageStore(t)
	alice, bob := uuid.New(), uuid.New()
	msgID := seedMessage(store, alice, bob, "originl")

	if _, err := EditMessage(msgID, bob, "hijacked"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("recipient editing: expected ErrUnauthorized, got %v", err)
	}
	if _, err := EditMessage(msgID, alice, "   "); !errors.Is(err, ErrValidation) {
		t.Errorf("blank body: expected ErrValidation, got %v", err)
	}
	if _, err := EditMessage(uuid.New(), alice, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown message: expected ErrNotFound, got %v", err)
	}

	msg, err := EditMessage(msgID, alice, "original")
	if err != nil {
		t.Fatalf("EditMessage: %v", err)
	}
	if msg.Body != "original" {
		t.Errorf("body = %q after edit", msg.Body)
	}
	if stored, _ := store.Get(msgID); stored.Body != "original" {
		t.Errorf("stored body = %q after edit", stored.Body)
	}
}
