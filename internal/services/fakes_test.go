package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"

	"ticket-reservation/internal/services/payment"
	"ticket-reservation/internal/status"
	"ticket-reservation/models"
)

// fakeLedger is an in-memory inventory ledger with the same conditional
// semantics as the SQL implementation.
type fakeLedger struct {
	mu           sync.Mutex
	ticketTypes  map[string]*models.TicketType
	releaseCalls int
}

func newFakeLedger(ticketTypes ...models.TicketType) *fakeLedger {
	l := &fakeLedger{ticketTypes: map[string]*models.TicketType{}}
	for _, tt := range ticketTypes {
		cp := tt
		l.ticketTypes[tt.ID] = &cp
	}
	return l
}

func (l *fakeLedger) TryReserve(_ context.Context, ticketTypeID string, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tt, ok := l.ticketTypes[ticketTypeID]
	if !ok {
		return status.ErrTicketTypeNotFound
	}
	if tt.Available < qty {
		return status.ErrInsufficientInventory
	}
	tt.Available -= qty
	return nil
}

func (l *fakeLedger) Release(_ context.Context, ticketTypeID string, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.releaseCalls++
	if tt, ok := l.ticketTypes[ticketTypeID]; ok {
		tt.Available += qty
	}
	return nil
}

func (l *fakeLedger) GetTicketType(_ context.Context, id string) (*models.TicketType, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tt, ok := l.ticketTypes[id]
	if !ok {
		return nil, status.ErrTicketTypeNotFound
	}
	cp := *tt
	return &cp, nil
}

func (l *fakeLedger) available(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ticketTypes[id].Available
}

// fakeReservationRepo keeps holds in memory and mirrors the coupled
// delete+release / delete+purchase semantics of the real store.
type fakeReservationRepo struct {
	mu           sync.Mutex
	ledger       *fakeLedger
	reservations map[string]models.Reservation
	purchases    []models.Purchase
	nextID       int

	createErr error
	// beforeCommit runs inside CommitSettlement before any row is touched,
	// to simulate a reclaimer winning the race mid-settlement.
	beforeCommit func()
}

func newFakeReservationRepo(ledger *fakeLedger) *fakeReservationRepo {
	return &fakeReservationRepo{
		ledger:       ledger,
		reservations: map[string]models.Reservation{},
	}
}

func (f *fakeReservationRepo) Create(_ context.Context, r *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	f.nextID++
	r.ID = fmt.Sprintf("res-%d", f.nextID)
	f.reservations[r.ID] = *r
	return nil
}

func (f *fakeReservationRepo) FindByOwner(_ context.Context, owner string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.Reservation{}
	for _, r := range f.reservations {
		if r.Owner == owner {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindExpired(_ context.Context, now time.Time, limit int) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.Reservation{}
	for _, r := range f.reservations {
		if r.Expired(now) && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindLive(_ context.Context, ids []string, now time.Time) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.Reservation{}
	for _, id := range ids {
		if r, ok := f.reservations[id]; ok && !r.Expired(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) ReclaimExpired(ctx context.Context, r models.Reservation, now time.Time) (bool, error) {
	f.mu.Lock()

	stored, ok := f.reservations[r.ID]
	if !ok || !stored.Expired(now) {
		f.mu.Unlock()
		return false, nil
	}
	delete(f.reservations, r.ID)
	f.mu.Unlock()

	if err := f.ledger.Release(ctx, stored.TicketTypeID, stored.Quantity); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeReservationRepo) CommitSettlement(_ context.Context, reservations []models.Reservation, reference string) ([]models.Purchase, error) {
	if f.beforeCommit != nil {
		f.beforeCommit()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// All-or-nothing: verify every row still exists before touching any.
	for _, r := range reservations {
		if _, ok := f.reservations[r.ID]; !ok {
			return nil, status.ErrStaleReservation
		}
	}

	purchases := make([]models.Purchase, 0, len(reservations))
	for _, r := range reservations {
		delete(f.reservations, r.ID)
		purchase := models.Purchase{
			ID:           fmt.Sprintf("pur-%s", r.ID),
			Owner:        r.Owner,
			TicketTypeID: r.TicketTypeID,
			Quantity:     r.Quantity,
			Reference:    reference,
		}
		f.purchases = append(f.purchases, purchase)
		purchases = append(purchases, purchase)
	}
	return purchases, nil
}

func (f *fakeReservationRepo) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.reservations[id]
	return ok
}

func (f *fakeReservationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reservations)
}

// addReservation seeds a hold directly, bypassing the ledger.
func (f *fakeReservationRepo) addReservation(r models.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations[r.ID] = r
}

type chargeCall struct {
	amount   decimal.Decimal
	currency string
}

// fakeGateway records charges and settles them verbatim unless configured
// otherwise.
type fakeGateway struct {
	mu      sync.Mutex
	charges []chargeCall
	err     error
	result  *payment.ChargeResult
}

func (g *fakeGateway) Provider() payment.Provider {
	return "fake"
}

func (g *fakeGateway) Charge(_ context.Context, amount decimal.Decimal, currency string) (*payment.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.charges = append(g.charges, chargeCall{amount: amount, currency: currency})
	if g.err != nil {
		return nil, g.err
	}
	if g.result != nil {
		return g.result, nil
	}
	return &payment.ChargeResult{Reference: "ch_test", Amount: amount, Currency: currency}, nil
}

func (g *fakeGateway) Close(context.Context) error {
	return nil
}

func (g *fakeGateway) chargeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charges)
}

type fakeNotifier struct {
	mu        sync.Mutex
	expired   []string
	completed []string
}

func (n *fakeNotifier) ReservationExpired(owner string, _ models.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expired = append(n.expired, owner)
}

func (n *fakeNotifier) PurchaseCompleted(owner string, _ []models.Purchase, _ decimal.Decimal, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, owner)
}

func mustDateTime(t time.Time) types.DateTime {
	dt, err := types.ParseDateTime(t)
	if err != nil {
		panic(err)
	}
	return dt
}
