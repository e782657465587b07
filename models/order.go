package models

import (
	"time"
)

// Order statuses. Transitions only move forward:
// waiting_payment -> paid -> validated, or waiting_payment -> cancelled.
const (
	OrderStatusWaitingPayment = "waiting_payment"
	OrderStatusPaid           = "paid"
	OrderStatusCancelled      = "cancelled"
	OrderStatusRefunded       = "refunded"
	OrderStatusValidated      = "validated"
)

const PaymentMethodCard = "card"

// Transaction statuses track the gateway-side lifecycle.
const (
	TransactionStatusPending  = "pending"
	TransactionStatusApproved = "approved"
	TransactionStatusRejected = "rejected"
)

type Order struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	EventID       string    `json:"event_id"`
	OrderNumber   string    `json:"order_number"`
	Subtotal      float64   `json:"subtotal"`
	TaxAmount     float64   `json:"tax_amount"`
	TotalAmount   float64   `json:"total_amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	QRCode        string    `json:"qr_code"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID                 string     `json:"id"`
	OrderID            string     `json:"order_id"`
	TicketTypeID       string     `json:"ticket_type_id"`
	EventID            string     `json:"event_id"`
	PricePaid          float64    `json:"price_paid"`
	Amount             int        `json:"amount"`
	UserID             string     `json:"user_id"`
	TransferredToEmail string     `json:"transferred_to_email"`
	Status             string     `json:"status"`
	ScannedAt          *time.Time `json:"scanned_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

type Transaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	OrderID      string    `json:"order_id"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	PreferenceID string    `json:"preference_id"`
	PaymentURL   string    `json:"payment_url"`
	CreatedAt    time.Time `json:"created_at"`
}
