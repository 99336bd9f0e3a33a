package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-reservation/internal/status"
	"ticket-reservation/models"
)

type fakeStatsRepo struct {
	purchaseStats    []models.CategoryStat
	reservationStats []models.CategoryStat

	lastCategory string
	lastNow      time.Time
	lastSource   string
}

func (f *fakeStatsRepo) PurchaseStats(_ context.Context, category string) ([]models.CategoryStat, error) {
	f.lastSource = "purchases"
	f.lastCategory = category
	return f.purchaseStats, nil
}

func (f *fakeStatsRepo) ReservationStats(_ context.Context, category string, now time.Time) ([]models.CategoryStat, error) {
	f.lastSource = "holds"
	f.lastCategory = category
	f.lastNow = now
	return f.reservationStats, nil
}

func newTestStatsService(repo *fakeStatsRepo) *StatsService {
	svc := NewStatsService(repo)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestStatsService_TicketStats_DefaultsToPurchases(t *testing.T) {
	repo := &fakeStatsRepo{purchaseStats: []models.CategoryStat{
		{Event: "Summer Fest", Category: "regular", Quantity: 12},
		{Event: "Summer Fest", Category: "vip", Quantity: 3},
	}}
	svc := newTestStatsService(repo)

	stats, err := svc.TicketStats(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, stats, 2)
	assert.Equal(t, "purchases", repo.lastSource)

	_, err = svc.TicketStats(context.Background(), "purchases", "vip")
	require.NoError(t, err)
	assert.Equal(t, "vip", repo.lastCategory)
}

func TestStatsService_TicketStats_HoldsUseCurrentClock(t *testing.T) {
	repo := &fakeStatsRepo{reservationStats: []models.CategoryStat{
		{Event: "Summer Fest", Category: "premium", Quantity: 4},
	}}
	svc := newTestStatsService(repo)

	stats, err := svc.TicketStats(context.Background(), "holds", "premium")
	require.NoError(t, err)
	assert.Len(t, stats, 1)
	assert.Equal(t, "holds", repo.lastSource)
	assert.Equal(t, testNow, repo.lastNow, "expired holds filtered against the service clock")
}

func TestStatsService_TicketStats_RejectsUnknownInput(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := newTestStatsService(repo)

	_, err := svc.TicketStats(context.Background(), "", "backstage")
	assert.ErrorIs(t, err, status.ErrInvalidCategory)

	_, err = svc.TicketStats(context.Background(), "refunds", "")
	assert.ErrorIs(t, err, status.ErrInvalidCategory)

	assert.Empty(t, repo.lastSource, "no repo call for invalid input")
}
