package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"payper-storefront/internal/services/mercadopago"
	"payper-storefront/monitoring"
	"payper-storefront/services"
)

type PaymentHandler struct {
	payments *services.PaymentService
	orders   *services.OrderService
}

func NewPaymentHandler(payments *services.PaymentService, orders *services.OrderService) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		orders:   orders,
	}
}

// CreatePayment - POST /api/payment. Creates the gateway preference
// for an order and returns the hosted checkout URL.
func (h *PaymentHandler) CreatePayment(e *core.RequestEvent) error {
	var req services.PaymentRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := matchSessionUser(e, req.UserID); err != nil {
		return err
	}
	if req.UserID == "" {
		req.UserID = e.Auth.Id
	}

	reply, err := h.payments.CreatePayment(e.Request.Context(), &req)
	if err != nil {
		slog.Error("h.payments.CreatePayment()", "purchaseId", req.PurchaseID, "error", err)
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": reply})
}

// GetPayment - GET /api/payment?purchaseId= returns the order the
// storefront is polling while the buyer sits on the gateway page.
func (h *PaymentHandler) GetPayment(e *core.RequestEvent) error {
	purchaseID := e.Request.URL.Query().Get("purchaseId")
	if purchaseID == "" {
		return apis.NewBadRequestError("purchaseId is required", nil)
	}

	order, err := h.orders.GetOrder(e.Request.Context(), purchaseID)
	if err != nil {
		return mapServiceError(err)
	}

	if order.UserID != e.Auth.Id {
		return apis.NewForbiddenError("Access denied", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": order})
}

// Webhook - POST /api/payment/webhook. Gateway deliveries are always
// acknowledged with 200 unless reconciliation itself fails; a non-200
// would only make the gateway retry a request we already rejected.
func (h *PaymentHandler) Webhook(e *core.RequestEvent) error {
	var evt mercadopago.WebhookEvent
	if err := e.BindBody(&evt); err != nil {
		slog.Warn("webhook: unreadable body", "error", err)
		monitoring.TrackWebhookEvent("", "malformed")
		return e.JSON(http.StatusOK, map[string]any{"received": true})
	}

	xSignature := e.Request.Header.Get("x-signature")
	xRequestID := e.Request.Header.Get("x-request-id")
	if !h.payments.VerifyWebhook(xSignature, xRequestID, evt.Data.ID) {
		slog.Warn("webhook: signature verification failed", "paymentId", evt.Data.ID, "requestId", xRequestID)
		monitoring.TrackWebhookEvent(evt.Action, "bad_signature")
		return apis.NewForbiddenError("Invalid signature", nil)
	}

	outcome, err := h.payments.ProcessWebhook(e.Request.Context(), &evt)
	if err != nil {
		slog.Error("h.payments.ProcessWebhook()", "action", evt.Action, "paymentId", evt.Data.ID, "error", err)
		monitoring.TrackWebhookEvent(evt.Action, "error")
		return apis.NewInternalServerError("internal error", err)
	}

	slog.Info("webhook processed", "action", evt.Action, "paymentId", evt.Data.ID, "outcome", outcome)
	monitoring.TrackWebhookEvent(evt.Action, outcome)

	return e.JSON(http.StatusOK, map[string]any{"received": true, "outcome": outcome})
}

// WebhookLookup - GET /api/payment/webhook?id= fetches the
// authoritative payment straight from the gateway.
func (h *PaymentHandler) WebhookLookup(e *core.RequestEvent) error {
	paymentID := e.Request.URL.Query().Get("id")
	if paymentID == "" {
		return apis.NewBadRequestError("id is required", nil)
	}

	payment, err := h.payments.GetGatewayPayment(e.Request.Context(), paymentID)
	if err != nil {
		return mapServiceError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"data": payment})
}
