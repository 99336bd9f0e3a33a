package models

import (
	"github.com/pocketbase/pocketbase/tools/types"
)

type Event struct {
	ID       string         `db:"id" json:"id"`
	Name     string         `db:"name" json:"name"`
	Venue    string         `db:"venue" json:"venue"`
	StartsAt types.DateTime `db:"starts_at" json:"starts_at"`
	Status   string         `db:"status" json:"status"` // draft, published, ended
}
