package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"

	"ticket-reservation/config"
	"ticket-reservation/internal/status"
	"ticket-reservation/models"
	"ticket-reservation/monitoring"
)

// Ledger is the inventory side of hold placement and reclamation.
type Ledger interface {
	TryReserve(ctx context.Context, ticketTypeID string, qty int) error
	Release(ctx context.Context, ticketTypeID string, qty int) error
	GetTicketType(ctx context.Context, id string) (*models.TicketType, error)
}

// ReservationRepo is the hold storage used by the hold service, the reclaimer
// and the settlement engine. ReclaimExpired and CommitSettlement carry their
// paired inventory/purchase effects inside one atomic operation each.
type ReservationRepo interface {
	Create(ctx context.Context, r *models.Reservation) error
	FindByOwner(ctx context.Context, owner string) ([]models.Reservation, error)
	FindExpired(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error)
	FindLive(ctx context.Context, ids []string, now time.Time) ([]models.Reservation, error)
	ReclaimExpired(ctx context.Context, r models.Reservation, now time.Time) (bool, error)
	CommitSettlement(ctx context.Context, reservations []models.Reservation, reference string) ([]models.Purchase, error)
}

type HoldService struct {
	ledger       Ledger
	reservations ReservationRepo
	holdDuration time.Duration
	maxQuantity  int
	now          func() time.Time
}

func NewHoldService(ledger Ledger, reservations ReservationRepo, cfg *config.Config) *HoldService {
	return &HoldService{
		ledger:       ledger,
		reservations: reservations,
		holdDuration: cfg.HoldDuration,
		maxQuantity:  cfg.MaxHoldQuantity,
		now:          time.Now,
	}
}

// PlaceHold debits the inventory ledger and records a hold expiring after the
// configured duration. A failed hold write after a successful debit is
// compensated by releasing the debited quantity, so no inventory leaks.
func (s *HoldService) PlaceHold(ctx context.Context, owner, ticketTypeID string, qty int) (*models.Reservation, error) {
	if qty < 1 || qty > s.maxQuantity {
		monitoring.TrackHoldRejected("invalid_quantity")
		return nil, status.ErrInvalidQuantity
	}

	ticketType, err := s.ledger.GetTicketType(ctx, ticketTypeID)
	if err != nil {
		monitoring.TrackHoldRejected("unknown_ticket_type")
		return nil, err
	}

	if err := s.ledger.TryReserve(ctx, ticketTypeID, qty); err != nil {
		if errors.Is(err, status.ErrInsufficientInventory) {
			monitoring.TrackHoldRejected("insufficient_inventory")
		}
		return nil, err
	}

	now := s.now()
	expiresAt, err := types.ParseDateTime(now.Add(s.holdDuration).UTC())
	if err != nil {
		return nil, s.compensate(ctx, ticketTypeID, qty, err)
	}

	reservation := &models.Reservation{
		Owner:        owner,
		TicketTypeID: ticketTypeID,
		Quantity:     qty,
		AmountToPay:  ticketType.Price.Mul(decimal.NewFromInt(int64(qty))),
		ExpiresAt:    expiresAt,
	}

	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, s.compensate(ctx, ticketTypeID, qty, err)
	}

	monitoring.TrackHoldCreated()
	slog.Info("hold placed",
		"reservation_id", reservation.ID,
		"owner", owner,
		"ticket_type", ticketTypeID,
		"quantity", qty,
		"amount_to_pay", reservation.AmountToPay,
	)

	return reservation, nil
}

// compensate returns a debited quantity to the ledger after a failed hold
// write and hands the original error back.
func (s *HoldService) compensate(ctx context.Context, ticketTypeID string, qty int, cause error) error {
	if err := s.ledger.Release(ctx, ticketTypeID, qty); err != nil {
		// The debit is now leaked until an operator reconciles it; make noise.
		slog.Error("compensating inventory release failed",
			"ticket_type", ticketTypeID,
			"quantity", qty,
			"error", err,
			"cause", cause,
		)
	}
	return cause
}

func (s *HoldService) ListHolds(ctx context.Context, owner string) ([]models.Reservation, error) {
	return s.reservations.FindByOwner(ctx, owner)
}
