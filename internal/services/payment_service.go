package services

import (
	"context"
	"fmt"
	"log"

	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/google/uuid"
)

// PaymentGateway is the outbound contract to the mobile-money API.
type PaymentGateway interface {
	STKPush(ctx context.Context, phone string, amount int, callbackURL string) (*STKPushResult, error)
}

// TransactionStore persists payment transactions. Finalize operations are
// guarded: they only apply when the row is still pending, which makes both
// the synchronous path and the webhook safely idempotent regardless of
// arrival order.
type TransactionStore interface {
	Create(t *models.Transaction) error
	AttachCheckout(txID uuid.UUID, checkoutID string) error
	FinalizePending(txID uuid.UUID, status string) (bool, error)
	FinalizePendingByCheckout(checkoutID, status string) (userID uuid.UUID, phone string, applied bool, found bool, err error)
}

// UserDirectory is the slice of the identity store payments need.
type UserDirectory interface {
	GetUser(userID uuid.UUID) (*models.User, error)
	GrantPremium(userID uuid.UUID) error
}

// PaymentService drives premium payments: the synchronous STK push path and
// the asynchronous callback reconciliation both converge on the same guarded
// pending->terminal transition.
type PaymentService struct {
	Gateway     PaymentGateway
	Store       TransactionStore
	Users       UserDirectory
	Notifier    *Notifier
	Amount      int
	CallbackURL string
}

// Initiate creates a pending transaction and pushes the payment to the
// user's phone. An explicit gateway acceptance completes the transaction and
// grants premium synchronously; anything else marks it failed.
func (s *PaymentService) Initiate(ctx context.Context, userID uuid.UUID, phone string) (*models.Transaction, error) {
	phone = NormalizePhone(phone)
	if len(phone) < 10 {
		return nil, ErrValidation
	}

	tx := &models.Transaction{
		UserID: userID,
		Phone:  phone,
		Amount: s.Amount,
		Status: models.TransactionPending,
	}
	if err := s.Store.Create(tx); err != nil {
		return nil, err
	}

	result, err := s.Gateway.STKPush(ctx, phone, s.Amount, s.CallbackURL)
	if err != nil || !result.Accepted() {
		if _, ferr := s.Store.FinalizePending(tx.ID, models.TransactionFailed); ferr != nil {
			log.Printf("failed to mark transaction %s failed: %v", tx.ID, ferr)
		}
		tx.Status = models.TransactionFailed
		if err != nil {
			return tx, err
		}
		return tx, fmt.Errorf("%w: %s", ErrExternalService, gatewayErrorMessage(result))
	}

	tx.CheckoutRequestID = result.CheckoutRequestID
	if err := s.Store.AttachCheckout(tx.ID, result.CheckoutRequestID); err != nil {
		return nil, err
	}

	applied, err := s.Store.FinalizePending(tx.ID, models.TransactionCompleted)
	if err != nil {
		return nil, err
	}
	tx.Status = models.TransactionCompleted
	if applied {
		s.grantAndNotify(tx.UserID, tx.Phone, tx.CheckoutRequestID)
	}

	return tx, nil
}

// Reconcile is the webhook entry point. A success code completes the
// matching transaction and grants premium; any other code leaves the row
// pending for manual follow-up. An unknown checkout reference is logged and
// dropped: the gateway always gets an acknowledgment.
func (s *PaymentService) Reconcile(checkoutID string, resultCode int) error {
	if checkoutID == "" {
		log.Printf("payment callback without checkout reference, dropping")
		return nil
	}
	if resultCode != 0 {
		// Only the synchronous path marks failures; the record stays pending
		// so support can follow up on the gateway's side.
		log.Printf("payment callback for %s reported result code %d, leaving for follow-up", checkoutID, resultCode)
		return nil
	}

	userID, phone, applied, found, err := s.Store.FinalizePendingByCheckout(checkoutID, models.TransactionCompleted)
	if err != nil {
		return err
	}
	if !found {
		log.Printf("payment callback for unknown checkout %s, dropping", checkoutID)
		return nil
	}
	if !applied {
		// Already finalized by the synchronous path (or an earlier callback)
		return nil
	}

	s.grantAndNotify(userID, phone, checkoutID)
	return nil
}

func (s *PaymentService) grantAndNotify(userID uuid.UUID, phone, checkoutID string) {
	if err := s.Users.GrantPremium(userID); err != nil {
		log.Printf("failed to grant premium to %s: %v", userID, err)
		return
	}

	user, err := s.Users.GetUser(userID)
	if err != nil || user == nil {
		return
	}

	s.Notifier.SendEmailAsync(user.Email,
		"Payment Confirmed - Premium Access Unlocked",
		fmt.Sprintf("Dear %s,\n\nYour KES %d payment is confirmed. Transaction: %s.", user.Username, s.Amount, checkoutID))
	s.Notifier.SendSMSAsync(phone,
		fmt.Sprintf("Hello %s, your KES %d payment to Chiromo MHS is confirmed. Transaction: %s. Recovery in Dignity.", user.Username, s.Amount, checkoutID))
}

func gatewayErrorMessage(result *STKPushResult) string {
	if result == nil {
		return "no response from gateway"
	}
	if result.ErrorMessage != "" {
		return result.ErrorMessage
	}
	if result.ResponseDesc != "" {
		return result.ResponseDesc
	}
	return "payment was not accepted"
}
