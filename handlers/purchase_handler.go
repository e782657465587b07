package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"payper-storefront/services"
)

type PurchaseHandler struct {
	orders *services.OrderService
}

func NewPurchaseHandler(orders *services.OrderService) *PurchaseHandler {
	return &PurchaseHandler{orders: orders}
}

// CreatePurchase - POST /api/purchase. Reprices the cart server-side
// and writes the order with its items atomically.
func (h *PurchaseHandler) CreatePurchase(e *core.RequestEvent) error {
	var req services.PurchaseRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := matchSessionUser(e, req.UserID); err != nil {
		return err
	}
	if req.UserID == "" {
		req.UserID = e.Auth.Id
	}

	order, err := h.orders.SubmitOrder(e.Request.Context(), &req)
	if err != nil {
		slog.Error("h.orders.SubmitOrder()", "userId", req.UserID, "eventId", req.EventID, "error", err)
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": order})
}
