package status

import "errors"

var (
	ErrInvalidQuantity       = errors.New("reservation: quantity must be between 1 and 10")
	ErrInsufficientInventory = errors.New("inventory: not enough tickets available")
	ErrTicketTypeNotFound    = errors.New("inventory: ticket type not found")
	ErrStaleReservation      = errors.New("settlement: reservation missing, expired or already settled")
	ErrAmountMismatch        = errors.New("settlement: claimed amount does not match reservations")
	ErrPaymentDeclined       = errors.New("payment: payment declined")
	ErrInvalidCategory       = errors.New("stats: unknown ticket category")
)
