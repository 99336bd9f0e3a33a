package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticket-reservation/internal/services"
	"ticket-reservation/internal/status"
	"ticket-reservation/security"
)

type ReservationHandler struct {
	app     *pocketbase.PocketBase
	holds   *services.HoldService
	limiter *security.RateLimiter
}

func NewReservationHandler(app *pocketbase.PocketBase, holds *services.HoldService, limiter *security.RateLimiter) *ReservationHandler {
	return &ReservationHandler{
		app:     app,
		holds:   holds,
		limiter: limiter,
	}
}

// CreateReservation - place a time-limited hold on inventory
func (h *ReservationHandler) CreateReservation(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		TicketTypeID string `json:"ticket_type_id"`
		Quantity     int    `json:"quantity"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	ctx := e.Request.Context()

	if err := h.limiter.AllowHold(ctx, e.Auth.Id); err != nil {
		return e.JSON(http.StatusTooManyRequests, map[string]string{
			"error": "Too many hold requests. Please try again later.",
		})
	}

	reservation, err := h.holds.PlaceHold(ctx, e.Auth.Id, req.TicketTypeID, req.Quantity)
	switch {
	case err == nil:
	case errors.Is(err, status.ErrInvalidQuantity):
		return apis.NewBadRequestError("Quantity must be between 1 and 10", err)
	case errors.Is(err, status.ErrTicketTypeNotFound):
		return apis.NewNotFoundError("Ticket type not found", err)
	case errors.Is(err, status.ErrInsufficientInventory):
		return apis.NewBadRequestError("Not enough tickets available", err)
	default:
		return apis.NewApiError(http.StatusInternalServerError, "Failed to create reservation", err)
	}

	return e.JSON(http.StatusOK, reservation)
}

// ListReservations - list the caller's holds
func (h *ReservationHandler) ListReservations(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	reservations, err := h.holds.ListHolds(e.Request.Context(), e.Auth.Id)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to list reservations", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"reservations": reservations,
		"total":        len(reservations),
	})
}
