package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"payper-storefront/models"
)

// Record-to-model mapping for the storefront collections. Dates stay as
// the stored strings; PocketBase autodate fields become time.Time.

func eventFromRecord(r *core.Record) *models.Event {
	ev := &models.Event{
		ID:          r.Id,
		Title:       r.GetString("title"),
		Description: r.GetString("description"),
		Date:        r.GetString("date"),
		Time:        r.GetString("time"),
		Location:    r.GetString("location"),
		CreatedBy:   r.GetString("created_by"),
		CreatedAt:   r.GetDateTime("created").Time(),
	}
	if name := r.GetString("image"); name != "" {
		ev.ImageURL = fmt.Sprintf("/api/files/events/%s/%s", r.Id, name)
	}
	return ev
}

func ticketTypeFromRecord(r *core.Record) *models.TicketType {
	return &models.TicketType{
		ID:            r.Id,
		EventID:       r.GetString("event_id"),
		Name:          r.GetString("name"),
		Description:   r.GetString("description"),
		Price:         r.GetFloat("price"),
		TotalQuantity: r.GetInt("total_quantity"),
		Combo:         r.GetString("combo"),
	}
}

func orderFromRecord(r *core.Record) *models.Order {
	return &models.Order{
		ID:            r.Id,
		UserID:        r.GetString("user_id"),
		EventID:       r.GetString("event_id"),
		OrderNumber:   r.GetString("order_number"),
		Subtotal:      r.GetFloat("subtotal"),
		TaxAmount:     r.GetFloat("tax_amount"),
		TotalAmount:   r.GetFloat("total_amount"),
		Currency:      r.GetString("currency"),
		Status:        r.GetString("status"),
		PaymentMethod: r.GetString("payment_method"),
		QRCode:        r.GetString("qr_code"),
		CreatedAt:     r.GetDateTime("created").Time(),
		UpdatedAt:     r.GetDateTime("updated").Time(),
	}
}

func orderItemFromRecord(r *core.Record) *models.OrderItem {
	item := &models.OrderItem{
		ID:                 r.Id,
		OrderID:            r.GetString("order_id"),
		TicketTypeID:       r.GetString("ticket_type_id"),
		EventID:            r.GetString("event_id"),
		PricePaid:          r.GetFloat("price_paid"),
		Amount:             r.GetInt("amount"),
		UserID:             r.GetString("user_id"),
		TransferredToEmail: r.GetString("transferred_to_email"),
		Status:             r.GetString("status"),
		CreatedAt:          r.GetDateTime("created").Time(),
	}
	if scanned := r.GetDateTime("scanned_at"); !scanned.IsZero() {
		t := scanned.Time()
		item.ScannedAt = &t
	}
	return item
}

func transactionFromRecord(r *core.Record) *models.Transaction {
	return &models.Transaction{
		ID:           r.Id,
		UserID:       r.GetString("user_id"),
		OrderID:      r.GetString("order_id"),
		Amount:       r.GetFloat("amount"),
		Status:       r.GetString("status"),
		PreferenceID: r.GetString("preference_id"),
		PaymentURL:   r.GetString("payment_url"),
		CreatedAt:    r.GetDateTime("created").Time(),
	}
}

func userFromRecord(r *core.Record) *models.User {
	u := &models.User{
		ID:       r.Id,
		Email:    r.GetString("email"),
		Name:     r.GetString("name"),
		Role:     r.GetString("role"),
		Balance:  r.GetFloat("balance"),
		Phone:    r.GetString("phone"),
		Verified: r.GetBool("verified"),
	}
	if name := r.GetString("avatar"); name != "" {
		u.AvatarURL = fmt.Sprintf("/api/files/users/%s/%s", r.Id, name)
	}
	return u
}
