package models

import (
	"time"

	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"
)

// Reservation is a time-bounded hold on inventory. Immutable once created;
// it is removed either by the expiry reclaimer or by settlement, never both.
type Reservation struct {
	ID           string          `db:"id" json:"id"`
	Owner        string          `db:"owner" json:"owner"`
	TicketTypeID string          `db:"ticket_type" json:"ticket_type_id"`
	Quantity     int             `db:"quantity" json:"quantity"`
	AmountToPay  decimal.Decimal `db:"amount_to_pay" json:"amount_to_pay"`
	ExpiresAt    types.DateTime  `db:"expires_at" json:"expires_at"`
	Created      types.DateTime  `db:"created" json:"created"`
}

// Expired reports whether the hold is past its expiry at the given instant.
func (r Reservation) Expired(now time.Time) bool {
	return !r.ExpiresAt.Time().After(now)
}
