package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"ticket-reservation/internal/services"
	"ticket-reservation/internal/status"
)

type SettlementHandler struct {
	app        *pocketbase.PocketBase
	settlement *services.SettlementService
}

func NewSettlementHandler(app *pocketbase.PocketBase, settlement *services.SettlementService) *SettlementHandler {
	return &SettlementHandler{
		app:        app,
		settlement: settlement,
	}
}

// Settle - pay for one or more live holds and convert them into purchases
func (h *SettlementHandler) Settle(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		ReservationIDs []string `json:"reservation_ids"`
		Currency       string   `json:"currency"`
		Amount         string   `json:"amount"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return apis.NewBadRequestError("Invalid amount", err)
	}
	if req.Currency == "" {
		return apis.NewBadRequestError("Currency is required", nil)
	}

	purchases, err := h.settlement.Settle(e.Request.Context(), e.Auth.Id, req.ReservationIDs, req.Currency, amount)
	switch {
	case err == nil:
	case errors.Is(err, status.ErrStaleReservation):
		return apis.NewBadRequestError("One or more reservations are missing or expired", err)
	case errors.Is(err, status.ErrAmountMismatch):
		return apis.NewBadRequestError("Amount does not match the selected reservations", err)
	case errors.Is(err, status.ErrPaymentDeclined):
		return apis.NewBadRequestError("Payment declined: "+err.Error(), err)
	default:
		return apis.NewApiError(http.StatusInternalServerError, "Settlement failed", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message":   "Payment accepted",
		"purchases": purchases,
	})
}
