package services

import (
	"fmt"
	"log/slog"

	pubnub "github.com/pubnub/go"
	"github.com/shopspring/decimal"

	"ticket-reservation/models"
)

// Notifier pushes fire-and-forget events to the owner's channel. Failures are
// logged and swallowed; notifications never gate a state transition.
type Notifier interface {
	ReservationExpired(owner string, reservation models.Reservation)
	PurchaseCompleted(owner string, purchases []models.Purchase, amount decimal.Decimal, currency string)
}

type PubNubNotifier struct {
	pubnub *pubnub.PubNub
}

func NewPubNubNotifier(pn *pubnub.PubNub) *PubNubNotifier {
	return &PubNubNotifier{pubnub: pn}
}

func (n *PubNubNotifier) ReservationExpired(owner string, reservation models.Reservation) {
	n.publish(owner, map[string]any{
		"type":           "reservation_expired",
		"reservation_id": reservation.ID,
		"ticket_type":    reservation.TicketTypeID,
		"quantity":       reservation.Quantity,
	})
}

func (n *PubNubNotifier) PurchaseCompleted(owner string, purchases []models.Purchase, amount decimal.Decimal, currency string) {
	ids := make([]string, len(purchases))
	for i, p := range purchases {
		ids[i] = p.ID
	}

	n.publish(owner, map[string]any{
		"type":         "purchase_completed",
		"purchase_ids": ids,
		"amount":       amount.String(),
		"currency":     currency,
	})
}

func (n *PubNubNotifier) publish(owner string, message map[string]any) {
	channel := fmt.Sprintf("user-%s", owner)

	_, _, err := n.pubnub.Publish().
		Channel(channel).
		Message(message).
		Execute()
	if err != nil {
		slog.Warn("notification publish failed", "channel", channel, "type", message["type"], "error", err)
	}
}

// NoopNotifier is used when PubNub is not configured.
type NoopNotifier struct{}

func (NoopNotifier) ReservationExpired(string, models.Reservation) {}

func (NoopNotifier) PurchaseCompleted(string, []models.Purchase, decimal.Decimal, string) {}
