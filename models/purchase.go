package models

import (
	"github.com/pocketbase/pocketbase/tools/types"
)

// Purchase is the permanent record settlement leaves behind for a paid hold.
// Its units are consumed for good; they never return to the available pool.
type Purchase struct {
	ID           string         `db:"id" json:"id"`
	Owner        string         `db:"owner" json:"owner"`
	TicketTypeID string         `db:"ticket_type" json:"ticket_type_id"`
	Quantity     int            `db:"quantity" json:"quantity"`
	Reference    string         `db:"reference" json:"reference"`
	Created      types.DateTime `db:"created" json:"created"`
}

// CategoryStat is one aggregated row of the ticket statistics query.
type CategoryStat struct {
	Event    string `db:"event" json:"event"`
	Category string `db:"category" json:"category"`
	Quantity int64  `db:"quantity" json:"quantity"`
}
