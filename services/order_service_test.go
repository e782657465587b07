package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"payper-storefront/internal/status"
	"payper-storefront/models"
)

func validPurchaseRequest() *PurchaseRequest {
	return &PurchaseRequest{
		UserID:  "user1",
		EventID: "evt1",
		CartItems: []models.CartItem{
			{ID: "a", EventID: "evt1", TicketTypeID: "tt1", Price: 1000, Quantity: 2},
		},
		PaymentMethod: models.PaymentMethodCard,
		TotalAmount:   2100,
	}
}

// Validation failures must surface before any lookup or write; the
// service is constructed without an app to prove nothing is touched.
func TestSubmitOrder_EmptyCartFailsBeforePersistence(t *testing.T) {
	svc := NewOrderService(nil, nil, nil, "ARS")

	req := validPurchaseRequest()
	req.CartItems = nil

	_, err := svc.SubmitOrder(context.Background(), req)

	assert.Error(t, err)
	assert.True(t, status.IsValidation(err))
	assert.Contains(t, err.Error(), "cart is empty")
}

func TestSubmitOrder_ValidationFailures(t *testing.T) {
	svc := NewOrderService(nil, nil, nil, "ARS")

	tests := []struct {
		name   string
		mutate func(*PurchaseRequest)
		field  string
	}{
		{
			name:   "missing user",
			mutate: func(r *PurchaseRequest) { r.UserID = "" },
			field:  "userId",
		},
		{
			name:   "missing event",
			mutate: func(r *PurchaseRequest) { r.EventID = "" },
			field:  "eventId",
		},
		{
			name:   "missing payment method",
			mutate: func(r *PurchaseRequest) { r.PaymentMethod = "" },
			field:  "paymentMethod",
		},
		{
			name:   "legacy wallet method",
			mutate: func(r *PurchaseRequest) { r.PaymentMethod = "wallet" },
			field:  "paymentMethod",
		},
		{
			name:   "bank transfer method",
			mutate: func(r *PurchaseRequest) { r.PaymentMethod = "bank_transfer" },
			field:  "paymentMethod",
		},
		{
			name:   "zero total",
			mutate: func(r *PurchaseRequest) { r.TotalAmount = 0 },
			field:  "totalAmount",
		},
		{
			name: "zero quantity",
			mutate: func(r *PurchaseRequest) {
				r.CartItems[0].Quantity = 0
			},
			field: "cartItems",
		},
		{
			name: "negative quantity",
			mutate: func(r *PurchaseRequest) {
				r.CartItems[0].Quantity = -1
			},
			field: "cartItems",
		},
		{
			name: "item without ticket type",
			mutate: func(r *PurchaseRequest) {
				r.CartItems[0].TicketTypeID = ""
			},
			field: "cartItems",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validPurchaseRequest()
			tt.mutate(req)

			_, err := svc.SubmitOrder(context.Background(), req)

			assert.Error(t, err)
			assert.True(t, status.IsValidation(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestPurchaseRequest_ValidAcceptsCard(t *testing.T) {
	req := validPurchaseRequest()

	assert.NoError(t, req.validate())
}
