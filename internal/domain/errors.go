package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity is returned when a quantity mutation would drive an
// order item's quantity to zero or below.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ErrInvalidRefundAmount is returned when a refund amount exceeds the
// amount originally paid.
var ErrInvalidRefundAmount = errors.New("refund amount cannot exceed payment amount")

// ErrInsufficientStock is returned when a stock reduction exceeds the
// quantity on hand.
var ErrInsufficientStock = errors.New("insufficient stock")

// InvalidTransitionError is returned when a lifecycle operation is invoked
// in a status that does not allow it. It carries the current status so the
// caller can surface it.
type InvalidTransitionError struct {
	Op     string
	Status string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s in current status: %s", e.Op, e.Status)
}
