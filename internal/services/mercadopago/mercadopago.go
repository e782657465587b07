// Package mercadopago is a minimal client for the MercadoPago checkout
// API: preference creation, authoritative payment lookup and webhook
// signature verification. Only the fields this storefront consumes are
// modeled.
package mercadopago

// Authoritative payment statuses returned by the gateway.
const (
	PaymentStatusApproved   = "approved"
	PaymentStatusPending    = "pending"
	PaymentStatusInProcess  = "in_process"
	PaymentStatusRejected   = "rejected"
	PaymentStatusCancelled  = "cancelled"
	PaymentStatusRefunded   = "refunded"
	PaymentStatusChargeback = "charged_back"
)

// Webhook actions the reconciler reacts to.
const (
	ActionPaymentCreated = "payment.created"
	ActionPaymentUpdated = "payment.updated"
)

type Config struct {
	BaseURL             string `json:"baseUrl" mapstructure:"base_url"`
	AccessToken         string `json:"accessToken" mapstructure:"access_token"`
	WebhookSecret       string `json:"webhookSecret" mapstructure:"webhook_secret"`
	Currency            string `json:"currency" mapstructure:"currency"`
	StatementDescriptor string `json:"statementDescriptor" mapstructure:"statement_descriptor"`
}

type PreferenceItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	CurrencyID  string  `json:"currency_id"`
	UnitPrice   float64 `json:"unit_price"`
}

type Payer struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// PreferenceRequest is the payable invoice handed to the gateway. The
// external reference carries the local order id and is the sole
// correlation between gateway payments and local orders.
type PreferenceRequest struct {
	Items               []PreferenceItem `json:"items"`
	Payer               Payer            `json:"payer"`
	ExternalReference   string           `json:"external_reference"`
	BackURLs            BackURLs         `json:"back_urls"`
	NotificationURL     string           `json:"notification_url"`
	StatementDescriptor string           `json:"statement_descriptor,omitempty"`
}

type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// Payment is the authoritative payment record fetched back from the
// gateway; webhook bodies are never trusted for status.
type Payment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	ExternalReference string  `json:"external_reference"`
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
	PaymentMethodID   string  `json:"payment_method_id"`
	DateCreated       string  `json:"date_created"`
	DateApproved      string  `json:"date_approved"`
	Payer             Payer   `json:"payer"`
}

// WebhookEvent is the gateway's native delivery envelope.
type WebhookEvent struct {
	Action      string `json:"action"`
	APIVersion  string `json:"api_version"`
	Type        string `json:"type"`
	DateCreated string `json:"date_created"`
	LiveMode    bool   `json:"live_mode"`
	UserID      any    `json:"user_id"`
	Data        struct {
		ID string `json:"id"`
	} `json:"data"`
}

// IsPaymentEvent reports whether the delivery is one of the payment
// actions the reconciler processes and carries a payment id.
func (e *WebhookEvent) IsPaymentEvent() bool {
	if e.Data.ID == "" {
		return false
	}
	return e.Action == ActionPaymentCreated || e.Action == ActionPaymentUpdated
}
