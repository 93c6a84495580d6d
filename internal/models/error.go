package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("data not found")
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrInvalidTimeslot    = errors.New("timeslot does not exist")
	ErrIllegalTransition  = errors.New("status transition is not permitted")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrInvalidQuantity    = errors.New("line item quantity must be positive")
	ErrItemUnavailable    = errors.New("item is not available")
	ErrSequencingConflict = errors.New("invoice number already taken for this day")
	ErrInvoiceOverflow    = errors.New("daily invoice sequence exhausted")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInternalError      = errors.New("internal error")
)

// WindowClosedError is returned when an order is placed outside the
// timeslot's ordering window. It carries the window bounds for display.
type WindowClosedError struct {
	Label string
	Start string
	End   string
}

func (e *WindowClosedError) Error() string {
	return fmt.Sprintf("ordering is currently closed for the %s slot, available from %s to %s", e.Label, e.Start, e.End)
}
