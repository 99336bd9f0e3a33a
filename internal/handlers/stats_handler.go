package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticket-reservation/internal/services"
	"ticket-reservation/internal/status"
)

type StatsHandler struct {
	app   *pocketbase.PocketBase
	stats *services.StatsService
}

func NewStatsHandler(app *pocketbase.PocketBase, stats *services.StatsService) *StatsHandler {
	return &StatsHandler{
		app:   app,
		stats: stats,
	}
}

// TicketStats - quantities grouped by (event, category), optionally filtered
// by category; ?source=holds switches from purchases to live holds.
func (h *StatsHandler) TicketStats(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	query := e.Request.URL.Query()
	rows, err := h.stats.TicketStats(e.Request.Context(), query.Get("source"), query.Get("category"))
	switch {
	case err == nil:
	case errors.Is(err, status.ErrInvalidCategory):
		return apis.NewBadRequestError("Unknown category or source", err)
	default:
		return apis.NewApiError(http.StatusInternalServerError, "Failed to aggregate stats", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"rows":  rows,
		"total": len(rows),
	})
}
