package store

import (
	"context"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"ticket-reservation/models"
)

type PurchaseStore struct {
	app core.App
}

func NewPurchaseStore(app core.App) *PurchaseStore {
	return &PurchaseStore{app: app}
}

func (s *PurchaseStore) FindByOwner(ctx context.Context, owner string) ([]models.Purchase, error) {
	purchases := []models.Purchase{}
	err := s.app.DB().NewQuery(
		"SELECT id, owner, ticket_type, quantity, reference, created FROM purchases WHERE owner = {:owner} ORDER BY created DESC",
	).Bind(dbx.Params{"owner": owner}).WithContext(ctx).All(&purchases)
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// PurchaseStats aggregates purchased quantities by (event, category). An empty
// category means all categories.
func (s *PurchaseStore) PurchaseStats(ctx context.Context, category string) ([]models.CategoryStat, error) {
	query := `
		SELECT e.name AS event, t.category AS category, SUM(p.quantity) AS quantity
		FROM purchases p
		JOIN ticket_types t ON t.id = p.ticket_type
		JOIN events e ON e.id = t.event`
	params := dbx.Params{}
	if category != "" {
		query += " WHERE t.category = {:category}"
		params["category"] = category
	}
	query += " GROUP BY e.name, t.category ORDER BY e.name, t.category"

	stats := []models.CategoryStat{}
	if err := s.app.DB().NewQuery(query).Bind(params).WithContext(ctx).All(&stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ReservationStats is the same aggregation over live holds.
func (s *PurchaseStore) ReservationStats(ctx context.Context, category string, now time.Time) ([]models.CategoryStat, error) {
	query := `
		SELECT e.name AS event, t.category AS category, SUM(r.quantity) AS quantity
		FROM reservations r
		JOIN ticket_types t ON t.id = r.ticket_type
		JOIN events e ON e.id = t.event
		WHERE r.expires_at > {:now}`
	params := dbx.Params{"now": formatDateTime(now)}
	if category != "" {
		query += " AND t.category = {:category}"
		params["category"] = category
	}
	query += " GROUP BY e.name, t.category ORDER BY e.name, t.category"

	stats := []models.CategoryStat{}
	if err := s.app.DB().NewQuery(query).Bind(params).WithContext(ctx).All(&stats); err != nil {
		return nil, err
	}
	return stats, nil
}
