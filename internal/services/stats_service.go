package services

import (
	"context"
	"time"

	"ticket-reservation/internal/status"
	"ticket-reservation/models"
)

// StatsRepo provides the grouped quantity aggregations.
type StatsRepo interface {
	PurchaseStats(ctx context.Context, category string) ([]models.CategoryStat, error)
	ReservationStats(ctx context.Context, category string, now time.Time) ([]models.CategoryStat, error)
}

type StatsService struct {
	repo StatsRepo
	now  func() time.Time
}

func NewStatsService(repo StatsRepo) *StatsService {
	return &StatsService{
		repo: repo,
		now:  time.Now,
	}
}

// TicketStats aggregates quantities by (event, category). Source selects
// purchases (default) or live holds; category optionally filters one tier.
func (s *StatsService) TicketStats(ctx context.Context, source, category string) ([]models.CategoryStat, error) {
	if category != "" && !models.Category(category).IsValid() {
		return nil, status.ErrInvalidCategory
	}

	switch source {
	case "", "purchases":
		return s.repo.PurchaseStats(ctx, category)
	case "holds":
		return s.repo.ReservationStats(ctx, category, s.now())
	default:
		return nil, status.ErrInvalidCategory
	}
}
