package services

import "errors"

// Domain errors. Handlers map these to HTTP status codes; everything else is
// treated as an internal error.
var (
	// ErrValidation: malformed or semantically invalid input, no state change.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized: the actor lacks rights for the operation. Deliberately
	// vague when surfaced, so it never reveals what exists.
	ErrUnauthorized = errors.New("not allowed")

	// ErrInvalidState: the operation is not valid for the entity's current
	// state (e.g. approving a cancelled appointment).
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrConflict: a uniqueness rule was violated (duplicate session log,
	// second mood entry for the same day).
	ErrConflict = errors.New("conflict")

	// ErrNotFound: the referenced entity does not exist or is not visible to
	// the actor.
	ErrNotFound = errors.New("not found")

	// ErrExternalService: a payment gateway or network failure. For payments
	// this becomes a failed transaction; notification failures are swallowed.
	ErrExternalService = errors.New("external service error")
)
