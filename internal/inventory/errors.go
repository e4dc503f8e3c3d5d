package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means no ledger row exists for the referenced
	// product/variant. Non-retryable; inventory must be provisioned first.
	ErrNotConfigured = errors.New("inventory not configured for this product")

	// ErrConcurrencyConflict is surfaced after the bounded retries on the
	// version-guarded update are exhausted. The caller may retry the whole
	// request.
	ErrConcurrencyConflict = errors.New("stock update conflicted with concurrent writers")

	// ErrReservationNotFound means no reservation exists with the given ID
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrPurchaseOrderNotFound means no purchase order exists with the given ID
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")

	// ErrPurchaseOrderCancelled rejects deliveries against a cancelled order
	ErrPurchaseOrderCancelled = errors.New("purchase order is cancelled")

	// ErrDuplicateRecord means a row with the same natural key already exists
	ErrDuplicateRecord = errors.New("record already exists")

	// errVersionConflict signals one lost optimistic-lock race inside the
	// bounded retry loop. Never escapes the engine.
	errVersionConflict = errors.New("version conflict")
)

// StateTransitionError reports an attempt to confirm or release a
// reservation that already left the reserved state. The ledger is never
// mutated when this is returned.
type StateTransitionError struct {
	ReservationID string
	Current       string
	Attempted     string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("reservation %s cannot be %s: status is %s", e.ReservationID, e.Attempted, e.Current)
}

// ValidationError reports invalid call input rejected before any mutation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
