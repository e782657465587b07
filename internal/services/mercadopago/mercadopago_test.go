package mercadopago

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payper-storefront/internal/status"
)

func newTestClient(serverURL, secret string) *Client {
	return NewClient(&Config{
		BaseURL:             serverURL,
		AccessToken:         "test-token",
		WebhookSecret:       secret,
		Currency:            "ARS",
		StatementDescriptor: "Event Tickets",
	}, 5*time.Second)
}

func TestCreatePreference_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req PreferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "order123", req.ExternalReference)
		require.Len(t, req.Items, 1)
		assert.Equal(t, 2100.0, req.Items[0].UnitPrice)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Preference{
			ID:        "pref-1",
			InitPoint: "https://gateway.example/checkout/pref-1",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")

	pref, err := client.CreatePreference(context.Background(), &PreferenceRequest{
		Items: []PreferenceItem{{
			ID:         "order123",
			Title:      "Concert (ORD-20260828-ABC123)",
			Quantity:   1,
			CurrencyID: "ARS",
			UnitPrice:  2100,
		}},
		ExternalReference: "order123",
	})

	require.NoError(t, err)
	assert.Equal(t, "pref-1", pref.ID)
	assert.Equal(t, "https://gateway.example/checkout/pref-1", pref.InitPoint)
}

func TestCreatePreference_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid items"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")

	_, err := client.CreatePreference(context.Background(), &PreferenceRequest{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestCreatePreference_MissingInitPoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Preference{ID: "pref-1"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")

	_, err := client.CreatePreference(context.Background(), &PreferenceRequest{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "init_point")
}

func TestGetPayment_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/12345", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(Payment{
			ID:                12345,
			Status:            PaymentStatusApproved,
			ExternalReference: "order123",
			TransactionAmount: 2100,
			CurrencyID:        "ARS",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")

	payment, err := client.GetPayment(context.Background(), "12345")

	require.NoError(t, err)
	assert.Equal(t, int64(12345), payment.ID)
	assert.Equal(t, PaymentStatusApproved, payment.Status)
	assert.Equal(t, "order123", payment.ExternalReference)
}

func TestGetPayment_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")

	_, err := client.GetPayment(context.Background(), "unknown")

	assert.ErrorIs(t, err, status.ErrPaymentNotFound)
}

// Signature verification tests

func TestVerifySignature_Valid(t *testing.T) {
	secret := "webhook-secret"
	dataID := "12345"
	requestID := "req-abc"
	ts := "1756300000"

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	v1 := Hmac256([]byte(manifest), []byte(secret))
	xSignature := fmt.Sprintf("ts=%s,v1=%s", ts, v1)

	assert.True(t, VerifySignature(secret, xSignature, requestID, dataID))
}

func TestVerifySignature_LowercasesDataID(t *testing.T) {
	secret := "webhook-secret"
	requestID := "req-abc"
	ts := "1756300000"

	// Manifest uses the lowercase id even when the delivery carries
	// uppercase.
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", "abc123", requestID, ts)
	v1 := Hmac256([]byte(manifest), []byte(secret))
	xSignature := fmt.Sprintf("ts=%s,v1=%s", ts, v1)

	assert.True(t, VerifySignature(secret, xSignature, requestID, "ABC123"))
}

func TestVerifySignature_Tampered(t *testing.T) {
	secret := "webhook-secret"
	ts := "1756300000"

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", "12345", "req-abc", ts)
	v1 := Hmac256([]byte(manifest), []byte(secret))
	xSignature := fmt.Sprintf("ts=%s,v1=%s", ts, v1)

	assert.False(t, VerifySignature(secret, xSignature, "req-abc", "99999"))
	assert.False(t, VerifySignature("other-secret", xSignature, "req-abc", "12345"))
}

func TestVerifySignature_MalformedHeader(t *testing.T) {
	assert.False(t, VerifySignature("secret", "", "req", "1"))
	assert.False(t, VerifySignature("secret", "ts=123", "req", "1"))
	assert.False(t, VerifySignature("secret", "v1=abc", "req", "1"))
	assert.False(t, VerifySignature("secret", "garbage", "req", "1"))
}

func TestVerifyWebhook_DisabledWithoutSecret(t *testing.T) {
	client := newTestClient("https://api.example", "")

	assert.True(t, client.VerifyWebhook("", "", "123"))
}

func TestWebhookEvent_IsPaymentEvent(t *testing.T) {
	evt := &WebhookEvent{Action: ActionPaymentUpdated}
	evt.Data.ID = "123"
	assert.True(t, evt.IsPaymentEvent())

	evt = &WebhookEvent{Action: ActionPaymentCreated}
	evt.Data.ID = "123"
	assert.True(t, evt.IsPaymentEvent())

	evt = &WebhookEvent{Action: "subscription.updated"}
	evt.Data.ID = "123"
	assert.False(t, evt.IsPaymentEvent())

	evt = &WebhookEvent{Action: ActionPaymentUpdated}
	assert.False(t, evt.IsPaymentEvent())
}
