package models

import (
	"github.com/shopspring/decimal"
)

// Category is the pricing tier of a ticket type.
type Category string

const (
	CategoryRegular Category = "regular"
	CategoryPremium Category = "premium"
	CategoryVIP     Category = "vip"
)

func Categories() []Category {
	return []Category{CategoryRegular, CategoryPremium, CategoryVIP}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryRegular, CategoryPremium, CategoryVIP:
		return true
	}
	return false
}

// TicketType is the authoritative inventory row for one tier of one event.
// The available counter is only ever mutated through the inventory ledger's
// single-statement conditional updates.
type TicketType struct {
	ID        string          `db:"id" json:"id"`
	EventID   string          `db:"event" json:"event_id"`
	Category  Category        `db:"category" json:"category"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Available int             `db:"available" json:"available"`
}
