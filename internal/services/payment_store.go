package services

import (
	"database/sql"

	"github.com/chiromo-health/cmhs-backend/internal/database"
	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/google/uuid"
)

// PostgresTransactionStore is the production TransactionStore. The guarded
// finalize operations lean on `WHERE status = 'pending'` so a transaction
// can leave pending exactly once, whichever path gets there first.
type PostgresTransactionStore struct{}

func (PostgresTransactionStore) Create(t *models.Transaction) error {
	return database.PostgresDB.QueryRow(`
		INSERT INTO transactions (user_id, phone, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, t.UserID, t.Phone, t.Amount, t.Status).Scan(&t.ID, &t.CreatedAt)
}

func (PostgresTransactionStore) AttachCheckout(txID uuid.UUID, checkoutID string) error {
	_, err := database.PostgresDB.Exec(`
		UPDATE transactions SET checkout_request_id = $1 WHERE id = $2
	`, checkoutID, txID)
	return err
}

func (PostgresTransactionStore) FinalizePending(txID uuid.UUID, status string) (bool, error) {
	res, err := database.PostgresDB.Exec(`
		UPDATE transactions SET status = $1 WHERE id = $2 AND status = 'pending'
	`, status, txID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (PostgresTransactionStore) FinalizePendingByCheckout(checkoutID, status string) (uuid.UUID, string, bool, bool, error) {
	var userID uuid.UUID
	var phone string

	// The RETURNING clause only fires when the guarded update applied
	err := database.PostgresDB.QueryRow(`
		UPDATE transactions SET status = $1
		WHERE checkout_request_id = $2 AND status = 'pending'
		RETURNING user_id, phone
	`, status, checkoutID).Scan(&userID, &phone)
	if err == nil {
		return userID, phone, true, true, nil
	}
	if err != sql.ErrNoRows {
		return uuid.Nil, "", false, false, err
	}

	// Nothing updated: either unknown checkout or already finalized
	var exists bool
	err = database.PostgresDB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM transactions WHERE checkout_request_id = $1)
	`, checkoutID).Scan(&exists)
	if err != nil {
		return uuid.Nil, "", false, false, err
	}
	return uuid.Nil, "", false, exists, nil
}

// PostgresUserDirectory adapts the identity store to the payments contract.
type PostgresUserDirectory struct{}

func (PostgresUserDirectory) GetUser(userID uuid.UUID) (*models.User, error) {
	return GetUserByID(userID)
}

func (PostgresUserDirectory) GrantPremium(userID uuid.UUID) error {
	return GrantPremium(userID)
}
