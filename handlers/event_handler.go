package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"payper-storefront/services"
)

type EventHandler struct {
	catalog *services.CatalogService
}

func NewEventHandler(catalog *services.CatalogService) *EventHandler {
	return &EventHandler{catalog: catalog}
}

// ListEvents - GET /api/events
func (h *EventHandler) ListEvents(e *core.RequestEvent) error {
	events, err := h.catalog.ListEvents(e.Request.Context())
	if err != nil {
		slog.Error("h.catalog.ListEvents()", "error", err)
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": events})
}

// GetEvent - GET /api/events/{eventId} with ticket types and live
// availability.
func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")

	event, err := h.catalog.GetEvent(e.Request.Context(), eventID)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": event})
}
