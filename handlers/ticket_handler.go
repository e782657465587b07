package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"payper-storefront/services"
)

type TicketHandler struct {
	orders  *services.OrderService
	tickets *services.TicketService
}

func NewTicketHandler(orders *services.OrderService, tickets *services.TicketService) *TicketHandler {
	return &TicketHandler{
		orders:  orders,
		tickets: tickets,
	}
}

// ListTickets - GET /api/tickets returns the caller's orders with
// event, item and transaction expansion.
func (h *TicketHandler) ListTickets(e *core.RequestEvent) error {
	tickets, err := h.orders.ListUserTickets(e.Request.Context(), e.Auth.Id)
	if err != nil {
		slog.Error("h.orders.ListUserTickets()", "userId", e.Auth.Id, "error", err)
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": tickets})
}

// OrderQR - GET /api/orders/{orderId}/qr streams the redemption code
// as an inline PNG.
func (h *TicketHandler) OrderQR(e *core.RequestEvent) error {
	return h.serveQR(e, false)
}

// DownloadOrderQR - GET /api/orders/{orderId}/qr/download serves the
// same PNG as an attachment.
func (h *TicketHandler) DownloadOrderQR(e *core.RequestEvent) error {
	return h.serveQR(e, true)
}

func (h *TicketHandler) serveQR(e *core.RequestEvent, download bool) error {
	orderID := e.Request.PathValue("orderId")

	png, filename, err := h.tickets.OrderQR(e.Request.Context(), orderID, e.Auth.Id)
	if err != nil {
		return mapServiceError(err)
	}

	e.Response.Header().Set("Content-Type", "image/png")
	if download {
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	e.Response.WriteHeader(http.StatusOK)
	_, err = e.Response.Write(png)
	return err
}
