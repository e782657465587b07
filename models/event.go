package models

import (
	"time"
)

// Event is owned by an external admin tool; the storefront only reads it.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Time        string    `json:"time,omitempty"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatorName string    `json:"creator_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type TicketType struct {
	ID            string  `json:"id"`
	EventID       string  `json:"event_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	TotalQuantity int     `json:"total_quantity"`
	Combo         string  `json:"combo,omitempty"`

	// Derived: sold sums the units of non-cancelled order_items
	// referencing this type, available is total minus sold.
	QuantitySold      int `json:"quantity_sold"`
	QuantityAvailable int `json:"quantity_available"`
}

type EventWithTicketTypes struct {
	Event
	TicketTypes []TicketType `json:"ticket_types"`
}
