package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticket-reservation/internal/services"
)

type EventHandler struct {
	app          *pocketbase.PocketBase
	availability *services.AvailabilityService
}

func NewEventHandler(app *pocketbase.PocketBase, availability *services.AvailabilityService) *EventHandler {
	return &EventHandler{
		app:          app,
		availability: availability,
	}
}

// ListEvents - public event catalog
func (h *EventHandler) ListEvents(e *core.RequestEvent) error {
	events, err := h.app.FindAllRecords("events")
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to list events", err)
	}

	result := make([]map[string]any, 0, len(events))
	for _, event := range events {
		result = append(result, map[string]any{
			"id":        event.Id,
			"name":      event.GetString("name"),
			"venue":     event.GetString("venue"),
			"starts_at": event.GetDateTime("starts_at"),
			"status":    event.GetString("status"),
		})
	}

	return e.JSON(http.StatusOK, result)
}

// GetEvent - single event detail
func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")

	event, err := h.app.FindRecordById("events", eventID)
	if err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"id":        event.Id,
		"name":      event.GetString("name"),
		"venue":     event.GetString("venue"),
		"starts_at": event.GetDateTime("starts_at"),
		"status":    event.GetString("status"),
	})
}

// ListTicketTypes - ticket tiers of an event with current availability
func (h *EventHandler) ListTicketTypes(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")

	if _, err := h.app.FindRecordById("events", eventID); err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}

	ticketTypes, err := h.availability.ForEvent(e.Request.Context(), eventID)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to list ticket types", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"event_id":     eventID,
		"ticket_types": ticketTypes,
	})
}
