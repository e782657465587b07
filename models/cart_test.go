package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCart_Totals(t *testing.T) {
	cart := NewCart()
	cart.Add(CartItem{
		ID:           "line-1",
		EventID:      "evt1",
		TicketTypeID: "tt1",
		Price:        1000,
		Quantity:     2,
	})

	assert.True(t, decimal.NewFromInt(2000).Equal(cart.Subtotal()), "subtotal = %s", cart.Subtotal())
	assert.True(t, decimal.NewFromInt(100).Equal(cart.Taxes()), "taxes = %s", cart.Taxes())
	assert.True(t, decimal.NewFromInt(2100).Equal(cart.TotalPrice()), "total = %s", cart.TotalPrice())
}

func TestCart_TotalsExactWithFractionalPrices(t *testing.T) {
	// 0.1+0.2 style prices must not drift.
	items := []CartItem{
		{ID: "a", EventID: "e", TicketTypeID: "t1", Price: 10.10, Quantity: 3},
		{ID: "b", EventID: "e", TicketTypeID: "t2", Price: 0.20, Quantity: 1},
	}

	assert.Equal(t, "30.5", Subtotal(items).String())
	assert.Equal(t, "1.525", Taxes(items).String())
	assert.Equal(t, "32.025", TotalPrice(items).String())
}

func TestCart_AddMergesSameSelection(t *testing.T) {
	cart := NewCart()
	cart.Add(CartItem{ID: "a", EventID: "evt1", TicketTypeID: "tt1", Price: 50, Quantity: 1})
	cart.Add(CartItem{ID: "b", EventID: "evt1", TicketTypeID: "tt1", Price: 50, Quantity: 2})

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.TotalItems())
}

func TestCart_AddKeepsDistinctSelections(t *testing.T) {
	cart := NewCart()
	cart.Add(CartItem{ID: "a", EventID: "evt1", TicketTypeID: "tt1", Price: 50, Quantity: 1})
	cart.Add(CartItem{ID: "b", EventID: "evt1", TicketTypeID: "tt2", Price: 80, Quantity: 1})
	cart.Add(CartItem{ID: "c", EventID: "evt2", TicketTypeID: "tt1", Price: 50, Quantity: 1})

	assert.Len(t, cart.Items, 3)
}

func TestCart_ReplaceSetsQuantity(t *testing.T) {
	cart := NewCart()
	cart.Add(CartItem{ID: "a", EventID: "evt1", TicketTypeID: "tt1", Price: 50, Quantity: 2})
	cart.Replace(CartItem{ID: "a", EventID: "evt1", TicketTypeID: "tt1", Price: 50, Quantity: 5})

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCart_UpdateQuantityRemovesAtZero(t *testing.T) {
	cart := NewCart()
	cart.Add(CartItem{ID: "a", EventID: "evt1", TicketTypeID: "tt1", Price: 50, Quantity: 2})

	cart.UpdateQuantity("a", 0)
	assert.Empty(t, cart.Items)

	cart.Add(CartItem{ID: "b", EventID: "evt1", TicketTypeID: "tt2", Price: 50, Quantity: 2})
	cart.UpdateQuantity("b", -3)
	assert.Empty(t, cart.Items)
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart()
	cart.Add(CartItem{ID: "a", EventID: "evt1", TicketTypeID: "tt1", Price: 50, Quantity: 2})
	cart.PaymentMethod = "card"

	cart.Clear()

	assert.Empty(t, cart.Items)
	assert.Equal(t, PaymentMethodCard, cart.PaymentMethod)
	assert.True(t, cart.Subtotal().IsZero())
}
