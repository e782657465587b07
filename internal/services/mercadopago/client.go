package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"payper-storefront/internal/status"
)

type Client struct {
	// baseURL is the base url of the MercadoPago API.
	baseURL string

	// accessToken authenticates every call as a bearer token.
	accessToken string

	// webhookSecret signs inbound webhook deliveries; empty disables
	// verification.
	webhookSecret string

	currency            string
	statementDescriptor string

	// hc is the http client.
	hc *http.Client
}

// NewClient creates a new MercadoPago client.
func NewClient(cfg *Config, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:             cfg.BaseURL,
		accessToken:         cfg.AccessToken,
		webhookSecret:       cfg.WebhookSecret,
		currency:            cfg.Currency,
		statementDescriptor: cfg.StatementDescriptor,

		// set http client with timeout.
		hc: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Currency() string { return c.currency }

func (c *Client) StatementDescriptor() string { return c.statementDescriptor }

// CreatePreference posts a checkout preference and returns the hosted
// checkout URL plus an id for correlation.
func (c *Client) CreatePreference(ctx context.Context, pref *PreferenceRequest) (*Preference, error) {
	body, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("createPreference: json.Marshal: %w", err)
	}

	_baseURL, _ := url.Parse(c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s%s", _baseURL.String(), "/checkout/preferences"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("createPreference: http.NewReq: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("createPreference: http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("createPreference: resp.StatusCode: %d: %s", resp.StatusCode, msg)
	}

	var reply Preference
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("createPreference: json.Decode: %w", err)
	}
	if reply.InitPoint == "" {
		return nil, fmt.Errorf("createPreference: reply without init_point (id %q)", reply.ID)
	}

	return &reply, nil
}

// GetPayment fetches the authoritative payment record by gateway
// payment id.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	_baseURL, _ := url.Parse(c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/payments/%s", _baseURL.String(), url.PathEscape(paymentID)), nil)
	if err != nil {
		return nil, fmt.Errorf("getPayment: http.NewReq: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getPayment: http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, status.ErrPaymentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("getPayment: resp.StatusCode: %d: %s", resp.StatusCode, msg)
	}

	var reply Payment
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("getPayment: json.Decode: %w", err)
	}

	return &reply, nil
}

// VerifyWebhook checks the x-signature header of an inbound delivery
// against the configured secret. Returns true when no secret is
// configured (verification disabled).
func (c *Client) VerifyWebhook(xSignature, xRequestID, dataID string) bool {
	if c.webhookSecret == "" {
		return true
	}
	return VerifySignature(c.webhookSecret, xSignature, xRequestID, dataID)
}
