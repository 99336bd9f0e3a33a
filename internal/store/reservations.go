package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"ticket-reservation/internal/status"
	"ticket-reservation/models"
)

// ReservationStore persists holds and owns the two transitions that race with
// each other: expiry reclamation and settlement. Both are decided by a
// conditional DELETE inside one transaction; whichever lands first wins and
// the loser observes zero rows affected.
type ReservationStore struct {
	app core.App
}

func NewReservationStore(app core.App) *ReservationStore {
	return &ReservationStore{app: app}
}

// Create persists a new hold. The caller must already have debited the
// inventory ledger for the same quantity.
func (s *ReservationStore) Create(ctx context.Context, r *models.Reservation) error {
	collection, err := s.app.FindCollectionByNameOrId("reservations")
	if err != nil {
		return err
	}

	record := core.NewRecord(collection)
	record.Set("owner", r.Owner)
	record.Set("ticket_type", r.TicketTypeID)
	record.Set("quantity", r.Quantity)
	record.Set("amount_to_pay", r.AmountToPay.InexactFloat64())
	record.Set("expires_at", r.ExpiresAt)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return err
	}

	r.ID = record.Id
	r.Created = record.GetDateTime("created")
	return nil
}

func (s *ReservationStore) FindByOwner(ctx context.Context, owner string) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	err := s.app.DB().NewQuery(
		"SELECT id, owner, ticket_type, quantity, amount_to_pay, expires_at, created FROM reservations WHERE owner = {:owner} ORDER BY created DESC",
	).Bind(dbx.Params{"owner": owner}).WithContext(ctx).All(&reservations)
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindExpired returns up to limit holds whose expiry has passed.
func (s *ReservationStore) FindExpired(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	err := s.app.DB().NewQuery(
		"SELECT id, owner, ticket_type, quantity, amount_to_pay, expires_at, created FROM reservations WHERE expires_at <= {:now} ORDER BY expires_at LIMIT {:limit}",
	).Bind(dbx.Params{"now": formatDateTime(now), "limit": limit}).WithContext(ctx).All(&reservations)
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindLive returns the subset of ids that still exist and have not expired.
func (s *ReservationStore) FindLive(ctx context.Context, ids []string, now time.Time) ([]models.Reservation, error) {
	if len(ids) == 0 {
		return []models.Reservation{}, nil
	}

	params := dbx.Params{"now": formatDateTime(now)}
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		key := fmt.Sprintf("id%d", i)
		placeholders[i] = "{:" + key + "}"
		params[key] = id
	}

	reservations := []models.Reservation{}
	query := fmt.Sprintf(
		"SELECT id, owner, ticket_type, quantity, amount_to_pay, expires_at, created FROM reservations WHERE id IN (%s) AND expires_at > {:now}",
		strings.Join(placeholders, ", "),
	)
	if err := s.app.DB().NewQuery(query).Bind(params).WithContext(ctx).All(&reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// ReclaimExpired deletes the hold and returns its quantity to the inventory
// pool, as one transaction. The DELETE is conditional on the hold still
// existing and still being expired, so a hold that settlement claimed in the
// meantime is left alone and nothing is released for it. Reports whether this
// caller won the delete.
func (s *ReservationStore) ReclaimExpired(ctx context.Context, r models.Reservation, now time.Time) (bool, error) {
	reclaimed := false

	err := s.app.RunInTransaction(func(txApp core.App) error {
		res, err := txApp.DB().NewQuery(
			"DELETE FROM reservations WHERE id = {:id} AND expires_at <= {:now}",
		).Bind(dbx.Params{"id": r.ID, "now": formatDateTime(now)}).WithContext(ctx).Execute()
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			// Lost the race against settlement (or a concurrent reclaimer).
			return nil
		}

		if _, err := txApp.DB().NewQuery(
			"UPDATE ticket_types SET available = available + {:qty} WHERE id = {:id}",
		).Bind(dbx.Params{"id": r.TicketTypeID, "qty": r.Quantity}).WithContext(ctx).Execute(); err != nil {
			return err
		}

		reclaimed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return reclaimed, nil
}

// CommitSettlement converts the given holds into purchases: per hold an
// unconditional DELETE checked for exactly one affected row, then a purchase
// insert. Runs in a single transaction, so either every hold converts or the
// whole settlement rolls back with ErrStaleReservation. Inventory is not
// touched; settled units are consumed, not returned.
func (s *ReservationStore) CommitSettlement(ctx context.Context, reservations []models.Reservation, reference string) ([]models.Purchase, error) {
	purchases := make([]models.Purchase, 0, len(reservations))

	err := s.app.RunInTransaction(func(txApp core.App) error {
		collection, err := txApp.FindCollectionByNameOrId("purchases")
		if err != nil {
			return err
		}

		for _, r := range reservations {
			res, err := txApp.DB().NewQuery(
				"DELETE FROM reservations WHERE id = {:id}",
			).Bind(dbx.Params{"id": r.ID}).WithContext(ctx).Execute()
			if err != nil {
				return err
			}

			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				// The reclaimer beat us to this hold; abort the whole set.
				return status.ErrStaleReservation
			}

			record := core.NewRecord(collection)
			record.Set("owner", r.Owner)
			record.Set("ticket_type", r.TicketTypeID)
			record.Set("quantity", r.Quantity)
			record.Set("reference", reference)

			if err := txApp.SaveWithContext(ctx, record); err != nil {
				return err
			}

			purchases = append(purchases, models.Purchase{
				ID:           record.Id,
				Owner:        r.Owner,
				TicketTypeID: r.TicketTypeID,
				Quantity:     r.Quantity,
				Reference:    reference,
				Created:      record.GetDateTime("created"),
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return purchases, nil
}
