package models

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the fixed 5% storefront tax applied on the cart subtotal.
var TaxRate = decimal.NewFromFloat(0.05)

// CartItem is one selected ticket-type/quantity pair. It mirrors the
// browser cart entry and is never persisted as-is; the denormalized
// display fields are captured at add-time.
type CartItem struct {
	ID           string  `json:"id"`
	EventID      string  `json:"eventId"`
	EventTitle   string  `json:"eventTitle"`
	EventDate    string  `json:"eventDate"`
	EventTime    string  `json:"eventTime,omitempty"`
	EventLoc     string  `json:"eventLocation"`
	TicketTypeID string  `json:"ticketTypeId"`
	TicketName   string  `json:"ticketTypeName"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}

// Cart is the client-held selection for a single checkout. All
// mutations are local; nothing round-trips to the server until the
// order is submitted.
type Cart struct {
	Items         []CartItem `json:"items"`
	PaymentMethod string     `json:"paymentMethod"`
}

func NewCart() *Cart {
	return &Cart{PaymentMethod: PaymentMethodCard}
}

// Add merges the quantity into an existing (event, ticket type) entry
// or appends a new one.
func (c *Cart) Add(item CartItem) {
	for i := range c.Items {
		if c.Items[i].EventID == item.EventID && c.Items[i].TicketTypeID == item.TicketTypeID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Replace sets the quantity of an existing (event, ticket type) entry
// instead of merging, appending when absent.
func (c *Cart) Replace(item CartItem) {
	for i := range c.Items {
		if c.Items[i].EventID == item.EventID && c.Items[i].TicketTypeID == item.TicketTypeID {
			c.Items[i].Quantity = item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity of the entry with the given id,
// removing it when the quantity drops to zero or below.
func (c *Cart) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.Remove(itemID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Remove(itemID string) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
	c.PaymentMethod = PaymentMethodCard
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal is the exact sum of price times quantity over all items.
func (c *Cart) Subtotal() decimal.Decimal {
	return Subtotal(c.Items)
}

// Taxes is the subtotal times the fixed tax rate.
func (c *Cart) Taxes() decimal.Decimal {
	return Taxes(c.Items)
}

// TotalPrice is subtotal plus taxes.
func (c *Cart) TotalPrice() decimal.Decimal {
	return TotalPrice(c.Items)
}

func Subtotal(items []CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

func Taxes(items []CartItem) decimal.Decimal {
	return Subtotal(items).Mul(TaxRate)
}

func TotalPrice(items []CartItem) decimal.Decimal {
	return Subtotal(items).Add(Taxes(items))
}
