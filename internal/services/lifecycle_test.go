package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-reservation/config"
	"ticket-reservation/models"
)

// Walks a ticket type through the full hold lifecycle: two holds placed, one
// settled, one left to expire and be reclaimed. No unit may be lost or
// duplicated along the way.
func TestHoldLifecycle_UnitConservation(t *testing.T) {
	ctx := context.Background()

	ledger := newFakeLedger(models.TicketType{
		ID:        "tt-1",
		EventID:   "event-1",
		Category:  models.CategoryRegular,
		Price:     decimal.RequireFromString("5.00"),
		Available: 10,
	})
	repo := newFakeReservationRepo(ledger)
	notifier := &fakeNotifier{}

	holds := newTestHoldService(ledger, repo)
	settlement := newTestSettlement(repo, &fakeGateway{}, notifier)
	reclaimer := newTestReclaimer(repo, notifier)

	settled, err := holds.PlaceHold(ctx, "user-1", "tt-1", 3)
	require.NoError(t, err)
	abandoned, err := holds.PlaceHold(ctx, "user-2", "tt-1", 2)
	require.NoError(t, err)

	assert.Equal(t, 5, ledger.available("tt-1"), "both holds debited")

	// user-1 pays within the window.
	purchases, err := settlement.Settle(ctx, "user-1",
		[]string{settled.ID}, "EUR", decimal.RequireFromString("15.00"))
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, 3, purchases[0].Quantity)

	// user-2 never pays; a cycle after expiry returns the units.
	reclaimer.now = func() time.Time { return testNow.Add(16 * time.Minute) }
	reclaimer.runCycle(ctx)

	assert.False(t, repo.has(abandoned.ID))
	assert.Equal(t, 7, ledger.available("tt-1"),
		"available(7) + settled(3) must equal the initial 10")
	assert.Equal(t, 0, repo.count(), "no holds left behind")
	assert.Equal(t, []string{"user-1"}, notifier.completed)
	assert.Equal(t, []string{"user-2"}, notifier.expired)
}

// A second cycle after everything is reclaimed must be a no-op even when the
// scan clock keeps advancing.
func TestHoldLifecycle_ReclaimIsIdempotent(t *testing.T) {
	ctx := context.Background()

	ledger := newFakeLedger(models.TicketType{
		ID:        "tt-1",
		Price:     decimal.RequireFromString("5.00"),
		Available: 4,
	})
	repo := newFakeReservationRepo(ledger)
	notifier := &fakeNotifier{}

	holds := NewHoldService(ledger, repo, &config.Config{
		HoldDuration:    15 * time.Minute,
		MaxHoldQuantity: 10,
	})
	holds.now = func() time.Time { return testNow }
	reclaimer := newTestReclaimer(repo, notifier)
	reclaimer.now = func() time.Time { return testNow.Add(time.Hour) }

	_, err := holds.PlaceHold(ctx, "user-1", "tt-1", 4)
	require.NoError(t, err)

	reclaimer.runCycle(ctx)
	reclaimer.runCycle(ctx)

	assert.Equal(t, 4, ledger.available("tt-1"), "units restored exactly once")
	assert.Len(t, notifier.expired, 1)
}
