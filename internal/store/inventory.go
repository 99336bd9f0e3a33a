package store

import (
	"context"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"ticket-reservation/internal/status"
	"ticket-reservation/models"
)

// InventoryLedger owns the available counter of every ticket type. All
// mutations are single conditional statements so concurrent callers can never
// observe a lost update or drive the counter negative.
type InventoryLedger struct {
	app core.App
}

func NewInventoryLedger(app core.App) *InventoryLedger {
	return &InventoryLedger{app: app}
}

// TryReserve atomically decrements available by qty, failing with
// ErrInsufficientInventory when fewer than qty units remain. The check and the
// decrement are one UPDATE; there is no read-then-write window.
func (l *InventoryLedger) TryReserve(ctx context.Context, ticketTypeID string, qty int) error {
	res, err := l.app.DB().NewQuery(
		"UPDATE ticket_types SET available = available - {:qty} WHERE id = {:id} AND available >= {:qty}",
	).Bind(dbx.Params{"id": ticketTypeID, "qty": qty}).WithContext(ctx).Execute()
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the row is missing or there is not enough stock.
		if _, err := l.GetTicketType(ctx, ticketTypeID); err != nil {
			return err
		}
		return status.ErrInsufficientInventory
	}

	return nil
}

// Release returns qty units to the pool. Callers must guarantee each hold is
// released at most once; the coupled reclaim in the reservation store does.
func (l *InventoryLedger) Release(ctx context.Context, ticketTypeID string, qty int) error {
	_, err := l.app.DB().NewQuery(
		"UPDATE ticket_types SET available = available + {:qty} WHERE id = {:id}",
	).Bind(dbx.Params{"id": ticketTypeID, "qty": qty}).WithContext(ctx).Execute()
	return err
}

func (l *InventoryLedger) GetTicketType(ctx context.Context, id string) (*models.TicketType, error) {
	var tt models.TicketType
	err := l.app.DB().NewQuery(
		"SELECT id, event, category, price, available FROM ticket_types WHERE id = {:id}",
	).Bind(dbx.Params{"id": id}).WithContext(ctx).One(&tt)
	if err != nil {
		return nil, status.ErrTicketTypeNotFound
	}
	return &tt, nil
}

func (l *InventoryLedger) TicketTypesForEvent(ctx context.Context, eventID string) ([]models.TicketType, error) {
	tts := []models.TicketType{}
	err := l.app.DB().NewQuery(
		"SELECT id, event, category, price, available FROM ticket_types WHERE event = {:event} ORDER BY category",
	).Bind(dbx.Params{"event": eventID}).WithContext(ctx).All(&tts)
	if err != nil {
		return nil, err
	}
	return tts, nil
}

// formatDateTime renders a timestamp the way PocketBase stores date columns,
// so SQL comparisons against expires_at stay lexicographically correct.
func formatDateTime(t time.Time) string {
	return t.UTC().Format(types.DefaultDateLayout)
}
