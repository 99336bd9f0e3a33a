package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"ticket-reservation/internal/services/payment"
	"ticket-reservation/internal/status"
	"ticket-reservation/models"
	"ticket-reservation/monitoring"
	"ticket-reservation/utils"
)

type SettlementService struct {
	reservations ReservationRepo
	gateway      payment.Gateway
	notifier     Notifier
	breaker      *utils.CircuitBreaker
	now          func() time.Time
}

func NewSettlementService(reservations ReservationRepo, gateway payment.Gateway, notifier Notifier) *SettlementService {
	return &SettlementService{
		reservations: reservations,
		gateway:      gateway,
		notifier:     notifier,
		breaker:      utils.NewCircuitBreaker("payment-gateway"),
		now:          time.Now,
	}
}

// Settle converts the given holds into purchases if and only if every id is
// still live, belongs to the caller, the claimed amount equals the holds' sum
// and the gateway settles that exact amount. The conversion is all-or-nothing;
// a decline or a mid-commit race leaves every hold untouched. Inventory was
// debited at hold time and is never moved here.
func (s *SettlementService) Settle(ctx context.Context, owner string, ids []string, currency string, claimedAmount decimal.Decimal) ([]models.Purchase, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		monitoring.TrackSettlement("stale")
		return nil, status.ErrStaleReservation
	}

	live, err := s.reservations.FindLive(ctx, ids, s.now())
	if err != nil {
		return nil, fmt.Errorf("looking up reservations: %w", err)
	}
	if len(live) != len(ids) {
		monitoring.TrackSettlement("stale")
		return nil, status.ErrStaleReservation
	}

	total := decimal.Zero
	for _, r := range live {
		if r.Owner != owner {
			// Treat foreign holds the same as missing ones so the endpoint
			// cannot be used to probe other owners' reservation ids.
			monitoring.TrackSettlement("stale")
			return nil, status.ErrStaleReservation
		}
		total = total.Add(r.AmountToPay)
	}
	if !total.Equal(claimedAmount) {
		monitoring.TrackSettlement("amount_mismatch")
		return nil, status.ErrAmountMismatch
	}

	// No storage transaction is open here; the gateway call may block for its
	// full timeout without holding any lock.
	result, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.gateway.Charge(ctx, claimedAmount, currency)
	})
	if err != nil {
		monitoring.TrackSettlement("declined")
		return nil, fmt.Errorf("%w: %v", status.ErrPaymentDeclined, err)
	}

	charge := result.(*payment.ChargeResult)
	if !charge.Amount.Equal(claimedAmount) || charge.Currency != currency {
		slog.Error("gateway settled a different amount than requested",
			"requested_amount", claimedAmount,
			"requested_currency", currency,
			"settled_amount", charge.Amount,
			"settled_currency", charge.Currency,
			"reference", charge.Reference,
		)
		monitoring.TrackSettlement("declined")
		return nil, fmt.Errorf("%w: gateway settled %s %s", status.ErrPaymentDeclined, charge.Amount, charge.Currency)
	}

	purchases, err := s.reservations.CommitSettlement(ctx, live, charge.Reference)
	if err != nil {
		// The charge went through but the holds changed under us. Surface the
		// reference so the charge can be traced and reversed out of band.
		slog.Error("settlement commit failed after successful charge",
			"owner", owner,
			"reservation_ids", ids,
			"reference", charge.Reference,
			"error", err,
		)
		monitoring.TrackSettlement("commit_failed")
		return nil, err
	}

	monitoring.TrackSettlement("succeeded")
	slog.Info("settlement committed",
		"owner", owner,
		"purchases", len(purchases),
		"amount", claimedAmount,
		"currency", currency,
		"reference", charge.Reference,
	)
	s.notifier.PurchaseCompleted(owner, purchases, claimedAmount, currency)

	return purchases, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
