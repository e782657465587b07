package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"payper-storefront/internal/status"
	"payper-storefront/models"
	"payper-storefront/monitoring"
	"payper-storefront/utils"
)

// Mailer sends a transactional mail. Satisfied by MailService; nil
// disables checkout notifications.
type Mailer interface {
	Send(ctx context.Context, req *MailRequest) error
}

// OrderService turns a validated cart into an order plus its line
// items. Client-supplied prices and totals are never trusted.
type OrderService struct {
	app      core.App
	catalog  *CatalogService
	mailer   Mailer
	currency string
}

func NewOrderService(app core.App, catalog *CatalogService, mailer Mailer, currency string) *OrderService {
	return &OrderService{
		app:      app,
		catalog:  catalog,
		mailer:   mailer,
		currency: currency,
	}
}

type PurchaseRequest struct {
	UserID             string            `json:"userId"`
	EventID            string            `json:"eventId"`
	CartItems          []models.CartItem `json:"cartItems"`
	PaymentMethod      string            `json:"paymentMethod"`
	TotalAmount        float64           `json:"totalAmount"`
	TransferredToEmail string            `json:"transferred_to_email"`
}

func (r *PurchaseRequest) validate() error {
	if r.UserID == "" {
		return status.Invalid("userId", "required")
	}
	if r.EventID == "" {
		return status.Invalid("eventId", "required")
	}
	if len(r.CartItems) == 0 {
		return status.Invalid("cartItems", "cart is empty")
	}
	if r.PaymentMethod == "" {
		return status.Invalid("paymentMethod", "required")
	}
	if r.PaymentMethod != models.PaymentMethodCard {
		return status.Invalid("paymentMethod", fmt.Sprintf("unsupported payment method %q", r.PaymentMethod))
	}
	if r.TotalAmount <= 0 {
		return status.Invalid("totalAmount", "required")
	}
	for _, item := range r.CartItems {
		if item.TicketTypeID == "" {
			return status.Invalid("cartItems", "ticket type is required")
		}
		if item.Quantity <= 0 {
			return status.Invalid("cartItems", "quantity must be positive")
		}
	}
	return nil
}

// repricedLine is a cart entry with the authoritative unit price read
// back from ticket_types.
type repricedLine struct {
	ticketType *models.TicketType
	quantity   int
	price      decimal.Decimal
}

// SubmitOrder validates and reprices the cart, then writes the order
// and all its line items in one transaction. On success a new_order
// mail is dispatched fire and forget.
func (s *OrderService) SubmitOrder(ctx context.Context, req *PurchaseRequest) (*models.Order, error) {
	if err := req.validate(); err != nil {
		monitoring.TrackOrderCreated(req.PaymentMethod, "invalid")
		return nil, err
	}

	user, err := s.app.FindRecordById("users", req.UserID)
	if err != nil {
		return nil, status.ErrUserNotFound
	}

	eventRecord, err := s.app.FindRecordById("events", req.EventID)
	if err != nil {
		return nil, status.ErrEventNotFound
	}

	lines, err := s.reprice(req)
	if err != nil {
		monitoring.TrackOrderCreated(req.PaymentMethod, "invalid")
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.price.Mul(decimal.NewFromInt(int64(line.quantity))))
	}
	taxAmount := subtotal.Mul(models.TaxRate)
	totalAmount := subtotal.Add(taxAmount)

	orderNumber, err := utils.NewOrderNumber()
	if err != nil {
		return nil, fmt.Errorf("submitOrder: order number: %w", err)
	}
	qrCode, err := utils.NewRedemptionCode()
	if err != nil {
		return nil, fmt.Errorf("submitOrder: redemption code: %w", err)
	}

	var orderRecord *core.Record

	err = s.app.RunInTransaction(func(txApp core.App) error {
		// Availability is rechecked inside the transaction so two
		// concurrent submissions cannot both pass the earlier read.
		for _, line := range lines {
			sold, err := countSold(txApp, line.ticketType.ID)
			if err != nil {
				return err
			}
			if sold+line.quantity > line.ticketType.TotalQuantity {
				return status.Invalid("cartItems", fmt.Sprintf("not enough tickets left for %q", line.ticketType.Name))
			}
		}

		ordersCol, err := txApp.FindCollectionByNameOrId("orders")
		if err != nil {
			return fmt.Errorf("find orders collection: %w", err)
		}

		orderRecord = core.NewRecord(ordersCol)
		orderRecord.Set("user_id", req.UserID)
		orderRecord.Set("event_id", req.EventID)
		orderRecord.Set("order_number", orderNumber)
		orderRecord.Set("subtotal", subtotal.InexactFloat64())
		orderRecord.Set("tax_amount", taxAmount.InexactFloat64())
		orderRecord.Set("total_amount", totalAmount.InexactFloat64())
		orderRecord.Set("currency", s.currency)
		orderRecord.Set("status", models.OrderStatusWaitingPayment)
		orderRecord.Set("payment_method", req.PaymentMethod)
		orderRecord.Set("qr_code", qrCode)

		if err := txApp.Save(orderRecord); err != nil {
			return fmt.Errorf("save order: %w", err)
		}

		itemsCol, err := txApp.FindCollectionByNameOrId("order_items")
		if err != nil {
			return fmt.Errorf("find order_items collection: %w", err)
		}

		for _, line := range lines {
			item := core.NewRecord(itemsCol)
			item.Set("order_id", orderRecord.Id)
			item.Set("ticket_type_id", line.ticketType.ID)
			item.Set("event_id", req.EventID)
			item.Set("price_paid", line.price.InexactFloat64())
			item.Set("amount", line.quantity)
			item.Set("user_id", req.UserID)
			item.Set("transferred_to_email", req.TransferredToEmail)
			item.Set("status", models.OrderStatusWaitingPayment)

			if err := txApp.Save(item); err != nil {
				return fmt.Errorf("save order item: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		if status.IsValidation(err) {
			monitoring.TrackOrderCreated(req.PaymentMethod, "invalid")
			return nil, err
		}
		monitoring.TrackOrderCreated(req.PaymentMethod, "error")
		return nil, fmt.Errorf("submitOrder: %w", err)
	}

	ticketTypeIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		ticketTypeIDs = append(ticketTypeIDs, line.ticketType.ID)
	}
	s.catalog.InvalidateSoldCount(ctx, ticketTypeIDs...)

	monitoring.TrackOrderCreated(req.PaymentMethod, "created")

	order := orderFromRecord(orderRecord)

	if s.mailer != nil {
		mail := &MailRequest{
			Email:         user.GetString("email"),
			Type:          MailTypeNewOrder,
			Name:          user.GetString("name"),
			OrderNumber:   order.OrderNumber,
			EventTitle:    eventRecord.GetString("title"),
			EventDate:     eventRecord.GetString("date"),
			EventLocation: eventRecord.GetString("location"),
			TotalAmount:   order.TotalAmount,
			Currency:      order.Currency,
			QRCode:        order.QRCode,
		}
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.mailer.Send(sendCtx, mail); err != nil {
				slog.Error("submitOrder: new_order mail", "orderId", order.ID, "error", err)
			}
		}()
	}

	return order, nil
}

// reprice resolves every cart entry against ticket_types and replaces
// client prices with the stored ones.
func (s *OrderService) reprice(req *PurchaseRequest) ([]repricedLine, error) {
	// Merge duplicate (event, ticket type) entries before checking
	// availability so a split selection cannot sneak past the limit.
	quantities := map[string]int{}
	order := []string{}
	for _, item := range req.CartItems {
		if _, seen := quantities[item.TicketTypeID]; !seen {
			order = append(order, item.TicketTypeID)
		}
		quantities[item.TicketTypeID] += item.Quantity
	}

	lines := make([]repricedLine, 0, len(order))
	for _, ticketTypeID := range order {
		record, err := s.app.FindRecordById("ticket_types", ticketTypeID)
		if err != nil {
			return nil, status.Invalid("cartItems", fmt.Sprintf("unknown ticket type %q", ticketTypeID))
		}
		tt := ticketTypeFromRecord(record)
		if tt.EventID != req.EventID {
			return nil, status.Invalid("cartItems", fmt.Sprintf("ticket type %q does not belong to the event", ticketTypeID))
		}
		lines = append(lines, repricedLine{
			ticketType: tt,
			quantity:   quantities[ticketTypeID],
			price:      decimal.NewFromFloat(tt.Price),
		})
	}

	return lines, nil
}

// GetOrder loads one order by id.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	record, err := s.app.FindRecordById("orders", orderID)
	if err != nil {
		return nil, status.ErrOrderNotFound
	}
	return orderFromRecord(record), nil
}

// OrderItems loads the line items of one order.
func (s *OrderService) OrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	records, err := s.app.FindRecordsByFilter(
		"order_items",
		"order_id = {:orderId}",
		"created",
		0,
		0,
		dbx.Params{"orderId": orderID},
	)
	if err != nil {
		return nil, fmt.Errorf("orderItems: %w", err)
	}

	items := make([]models.OrderItem, 0, len(records))
	for _, r := range records {
		items = append(items, *orderItemFromRecord(r))
	}
	return items, nil
}

// TicketOrder is one order expanded for the tickets view.
type TicketOrder struct {
	models.Order
	Event       *models.Event       `json:"event,omitempty"`
	Items       []models.OrderItem  `json:"items"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// ListUserTickets returns the caller's orders newest first with event,
// item and transaction expansion.
func (s *OrderService) ListUserTickets(ctx context.Context, userID string) ([]TicketOrder, error) {
	records, err := s.app.FindRecordsByFilter(
		"orders",
		"user_id = {:userId}",
		"-created",
		100,
		0,
		dbx.Params{"userId": userID},
	)
	if err != nil {
		return nil, fmt.Errorf("listUserTickets: find orders: %w", err)
	}

	tickets := make([]TicketOrder, 0, len(records))
	for _, r := range records {
		ticket := TicketOrder{Order: *orderFromRecord(r)}

		if eventRecord, err := s.app.FindRecordById("events", ticket.EventID); err == nil {
			ticket.Event = eventFromRecord(eventRecord)
		}

		items, err := s.OrderItems(ctx, ticket.Order.ID)
		if err != nil {
			return nil, err
		}
		ticket.Items = items

		if tx, err := s.app.FindFirstRecordByFilter(
			"transactions",
			"order_id = {:orderId}",
			dbx.Params{"orderId": ticket.Order.ID},
		); err == nil {
			ticket.Transaction = transactionFromRecord(tx)
		}

		tickets = append(tickets, ticket)
	}

	return tickets, nil
}
