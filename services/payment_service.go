package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	pubnub "github.com/pubnub/go/v7"
	"github.com/redis/go-redis/v9"

	"payper-storefront/internal/services/mercadopago"
	"payper-storefront/internal/status"
	"payper-storefront/models"
	"payper-storefront/monitoring"
	"payper-storefront/utils"
)

// Webhook outcomes reported back to the handler for logging and
// metrics. All of them are acknowledged with 200.
const (
	WebhookOutcomePaid      = "paid"
	WebhookOutcomeCancelled = "cancelled"
	WebhookOutcomeIgnored   = "ignored"
	WebhookOutcomeDuplicate = "duplicate"
	WebhookOutcomeUnmatched = "unmatched"
	WebhookOutcomeNoop      = "noop"
)

// webhookDedupTTL keeps processed (payment, status) pairs long enough
// to absorb the gateway's retry window.
const webhookDedupTTL = 24 * time.Hour

// PaymentService talks to the payment gateway and reconciles its
// webhook deliveries into local order state.
type PaymentService struct {
	app        core.App
	redis      *redis.Client
	gateway    *mercadopago.Client
	breaker    *utils.CircuitBreaker
	pubnub     *pubnub.PubNub
	webBaseURL string
}

func NewPaymentService(app core.App, redisClient *redis.Client, gateway *mercadopago.Client, pn *pubnub.PubNub, webBaseURL string) *PaymentService {
	return &PaymentService{
		app:        app,
		redis:      redisClient,
		gateway:    gateway,
		breaker:    utils.NewCircuitBreaker("mercadopago"),
		pubnub:     pn,
		webBaseURL: webBaseURL,
	}
}

type PaymentRequest struct {
	TotalAmount float64           `json:"totalAmount"`
	UserID      string            `json:"userId"`
	Payer       mercadopago.Payer `json:"payer"`
	EventID     string            `json:"eventId"`
	PurchaseID  string            `json:"purchaseId"`
}

type PaymentReply struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"orderId"`
	Status       string  `json:"status"`
	Amount       float64 `json:"amount"`
	PreferenceID string  `json:"preferenceId"`
	PaymentURL   string  `json:"paymentUrl"`
}

// CreatePayment records a pending transaction for the order and asks
// the gateway for a hosted checkout URL. The charged amount is the
// order total on file, never the client-supplied one.
func (s *PaymentService) CreatePayment(ctx context.Context, req *PaymentRequest) (*PaymentReply, error) {
	if req.PurchaseID == "" {
		return nil, status.Invalid("purchaseId", "required")
	}
	if req.UserID == "" {
		return nil, status.Invalid("userId", "required")
	}
	if req.Payer.Email == "" {
		return nil, status.Invalid("payer.email", "required")
	}

	orderRecord, err := s.app.FindRecordById("orders", req.PurchaseID)
	if err != nil {
		return nil, status.ErrOrderNotFound
	}
	order := orderFromRecord(orderRecord)

	if order.UserID != req.UserID {
		return nil, &status.AuthError{Reason: "order does not belong to user"}
	}
	if order.Status != models.OrderStatusWaitingPayment {
		return nil, status.Invalid("purchaseId", fmt.Sprintf("order is %s, not payable", order.Status))
	}

	itemTitle := order.OrderNumber
	if eventRecord, err := s.app.FindRecordById("events", order.EventID); err == nil {
		itemTitle = fmt.Sprintf("%s (%s)", eventRecord.GetString("title"), order.OrderNumber)
	}

	txCol, err := s.app.FindCollectionByNameOrId("transactions")
	if err != nil {
		return nil, fmt.Errorf("createPayment: find transactions collection: %w", err)
	}
	txRecord := core.NewRecord(txCol)
	txRecord.Set("user_id", order.UserID)
	txRecord.Set("order_id", order.ID)
	txRecord.Set("amount", order.TotalAmount)
	txRecord.Set("status", models.TransactionStatusPending)
	if err := s.app.Save(txRecord); err != nil {
		return nil, fmt.Errorf("createPayment: save transaction: %w", err)
	}

	prefReq := &mercadopago.PreferenceRequest{
		Items: []mercadopago.PreferenceItem{{
			ID:         order.ID,
			Title:      itemTitle,
			Quantity:   1,
			CurrencyID: s.gateway.Currency(),
			UnitPrice:  order.TotalAmount,
		}},
		Payer:             req.Payer,
		ExternalReference: order.ID,
		BackURLs: mercadopago.BackURLs{
			Success: fmt.Sprintf("%s/payment/success?orderId=%s", s.webBaseURL, order.ID),
			Failure: fmt.Sprintf("%s/payment/failure?orderId=%s", s.webBaseURL, order.ID),
			Pending: fmt.Sprintf("%s/payment/pending?orderId=%s", s.webBaseURL, order.ID),
		},
		NotificationURL:     fmt.Sprintf("%s/api/payment/webhook", s.webBaseURL),
		StatementDescriptor: s.gateway.StatementDescriptor(),
	}

	started := time.Now()
	result, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.gateway.CreatePreference(ctx, prefReq)
	})
	monitoring.TrackGatewayCall("create_preference", time.Since(started))
	if err != nil {
		return nil, status.Upstream("mercadopago", err)
	}
	pref := result.(*mercadopago.Preference)

	txRecord.Set("preference_id", pref.ID)
	txRecord.Set("payment_url", pref.InitPoint)
	if err := s.app.Save(txRecord); err != nil {
		return nil, fmt.Errorf("createPayment: update transaction: %w", err)
	}

	return &PaymentReply{
		ID:           txRecord.Id,
		OrderID:      order.ID,
		Status:       models.TransactionStatusPending,
		Amount:       order.TotalAmount,
		PreferenceID: pref.ID,
		PaymentURL:   pref.InitPoint,
	}, nil
}

// ProcessWebhook reconciles one gateway delivery. The webhook body is
// only trusted for the payment id; status comes from a direct gateway
// lookup. Returns the outcome label for logging and metrics.
func (s *PaymentService) ProcessWebhook(ctx context.Context, evt *mercadopago.WebhookEvent) (string, error) {
	if !evt.IsPaymentEvent() {
		return WebhookOutcomeIgnored, nil
	}

	started := time.Now()
	result, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.gateway.GetPayment(ctx, evt.Data.ID)
	})
	monitoring.TrackGatewayCall("get_payment", time.Since(started))
	if err != nil {
		if errors.Is(err, status.ErrPaymentNotFound) {
			slog.Warn("webhook: gateway has no such payment", "paymentId", evt.Data.ID)
			return WebhookOutcomeUnmatched, nil
		}
		return "", status.Upstream("mercadopago", err)
	}
	payment := result.(*mercadopago.Payment)

	// Retries deliver the same (payment, status) pair; a later status
	// change produces a fresh key and is processed normally.
	dedupKey := fmt.Sprintf("mp:webhook:%s:%s", evt.Data.ID, payment.Status)
	claimed := false
	if s.redis != nil {
		set, err := s.redis.SetNX(ctx, dedupKey, 1, webhookDedupTTL).Result()
		if err != nil {
			slog.Warn("webhook: dedup check failed, continuing", "paymentId", evt.Data.ID, "error", err)
		} else if !set {
			return WebhookOutcomeDuplicate, nil
		} else {
			claimed = true
		}
	}

	var outcome string
	var applyErr error
	switch payment.Status {
	case mercadopago.PaymentStatusApproved:
		outcome, applyErr = s.applyApproved(ctx, payment)
	case mercadopago.PaymentStatusRejected, mercadopago.PaymentStatusCancelled, mercadopago.PaymentStatusRefunded:
		outcome, applyErr = s.applyCancelled(ctx, payment)
	default:
		return WebhookOutcomeNoop, nil
	}
	if applyErr != nil {
		// Release the claim so the gateway retry is reprocessed instead
		// of dropped as a duplicate. The forward-only status guard keeps
		// the retry idempotent.
		if claimed {
			if err := s.redis.Del(ctx, dedupKey).Err(); err != nil {
				slog.Warn("webhook: dedup release failed", "key", dedupKey, "error", err)
			}
		}
		return "", applyErr
	}

	return outcome, nil
}

func (s *PaymentService) applyApproved(ctx context.Context, payment *mercadopago.Payment) (string, error) {
	orderRecord, err := s.app.FindRecordById("orders", payment.ExternalReference)
	if err != nil {
		slog.Warn("webhook: external_reference matches no order", "reference", payment.ExternalReference, "paymentId", payment.ID)
		return WebhookOutcomeUnmatched, nil
	}

	// Forward-only: a paid or validated order never moves again.
	if orderRecord.GetString("status") != models.OrderStatusWaitingPayment {
		return WebhookOutcomeDuplicate, nil
	}

	err = s.app.RunInTransaction(func(txApp core.App) error {
		orderRecord.Set("status", models.OrderStatusPaid)
		if err := txApp.Save(orderRecord); err != nil {
			return fmt.Errorf("save order: %w", err)
		}

		items, err := txApp.FindRecordsByFilter(
			"order_items",
			"order_id = {:orderId}",
			"",
			0,
			0,
			dbx.Params{"orderId": orderRecord.Id},
		)
		if err != nil {
			return fmt.Errorf("find order items: %w", err)
		}
		for _, item := range items {
			item.Set("status", models.OrderStatusPaid)
			if err := txApp.Save(item); err != nil {
				return fmt.Errorf("save order item: %w", err)
			}
		}

		if tx, err := txApp.FindFirstRecordByFilter(
			"transactions",
			"order_id = {:orderId}",
			dbx.Params{"orderId": orderRecord.Id},
		); err == nil {
			tx.Set("status", models.TransactionStatusApproved)
			if err := txApp.Save(tx); err != nil {
				return fmt.Errorf("save transaction: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("applyApproved: %w", err)
	}

	s.notifyPaymentSuccess(orderRecord, payment)

	return WebhookOutcomePaid, nil
}

func (s *PaymentService) applyCancelled(ctx context.Context, payment *mercadopago.Payment) (string, error) {
	orderRecord, err := s.app.FindRecordById("orders", payment.ExternalReference)
	if err != nil {
		slog.Warn("webhook: external_reference matches no order", "reference", payment.ExternalReference, "paymentId", payment.ID)
		return WebhookOutcomeUnmatched, nil
	}

	if orderRecord.GetString("status") != models.OrderStatusWaitingPayment {
		return WebhookOutcomeNoop, nil
	}

	err = s.app.RunInTransaction(func(txApp core.App) error {
		orderRecord.Set("status", models.OrderStatusCancelled)
		if err := txApp.Save(orderRecord); err != nil {
			return fmt.Errorf("save order: %w", err)
		}

		items, err := txApp.FindRecordsByFilter(
			"order_items",
			"order_id = {:orderId}",
			"",
			0,
			0,
			dbx.Params{"orderId": orderRecord.Id},
		)
		if err != nil {
			return fmt.Errorf("find order items: %w", err)
		}
		for _, item := range items {
			item.Set("status", models.OrderStatusCancelled)
			if err := txApp.Save(item); err != nil {
				return fmt.Errorf("save order item: %w", err)
			}
		}

		if tx, err := txApp.FindFirstRecordByFilter(
			"transactions",
			"order_id = {:orderId}",
			dbx.Params{"orderId": orderRecord.Id},
		); err == nil {
			tx.Set("status", models.TransactionStatusRejected)
			if err := txApp.Save(tx); err != nil {
				return fmt.Errorf("save transaction: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("applyCancelled: %w", err)
	}

	return WebhookOutcomeCancelled, nil
}

// notifyPaymentSuccess publishes the realtime event the storefront
// listens for on the buyer's channel. Best effort.
func (s *PaymentService) notifyPaymentSuccess(orderRecord *core.Record, payment *mercadopago.Payment) {
	if s.pubnub == nil {
		return
	}

	channel := fmt.Sprintf("user-%s", orderRecord.GetString("user_id"))
	_, pnStatus, err := s.pubnub.Publish().
		Channel(channel).
		Message(map[string]any{
			"type":         "payment_success",
			"order_id":     orderRecord.Id,
			"order_number": orderRecord.GetString("order_number"),
			"payment_id":   payment.ID,
		}).
		Execute()
	if err != nil || pnStatus.Error != nil {
		slog.Error("notifyPaymentSuccess: publish", "channel", channel, "error", err, "statusError", pnStatus.Error)
	}
}

// GatewayPayment is the reshaped authoritative payment returned by the
// webhook GET lookup.
type GatewayPayment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	ExternalReference string  `json:"external_reference"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	PaymentMethod     string  `json:"payment_method"`
	PayerEmail        string  `json:"payer_email"`
	DateCreated       string  `json:"date_created"`
	DateApproved      string  `json:"date_approved"`
}

// GetGatewayPayment fetches one payment straight from the gateway.
func (s *PaymentService) GetGatewayPayment(ctx context.Context, paymentID string) (*GatewayPayment, error) {
	started := time.Now()
	result, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.gateway.GetPayment(ctx, paymentID)
	})
	monitoring.TrackGatewayCall("get_payment", time.Since(started))
	if err != nil {
		if errors.Is(err, status.ErrPaymentNotFound) {
			return nil, err
		}
		return nil, status.Upstream("mercadopago", err)
	}
	payment := result.(*mercadopago.Payment)

	return &GatewayPayment{
		ID:                payment.ID,
		Status:            payment.Status,
		StatusDetail:      payment.StatusDetail,
		ExternalReference: payment.ExternalReference,
		Amount:            payment.TransactionAmount,
		Currency:          payment.CurrencyID,
		PaymentMethod:     payment.PaymentMethodID,
		PayerEmail:        payment.Payer.Email,
		DateCreated:       payment.DateCreated,
		DateApproved:      payment.DateApproved,
	}, nil
}

// VerifyWebhook proxies signature verification so handlers do not
// reach into the gateway client config.
func (s *PaymentService) VerifyWebhook(xSignature, xRequestID, dataID string) bool {
	return s.gateway.VerifyWebhook(xSignature, xRequestID, dataID)
}
