package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payper-storefront/internal/status"
)

func TestMailSend_SignUp(t *testing.T) {
	var received resendSendRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(resendSendReply{ID: "mail-1"})
	}))
	defer server.Close()

	svc := NewMailService(server.URL, "test-key", "Merch <hola@payperapp.io>", 5*time.Second)

	err := svc.Send(context.Background(), &MailRequest{
		Email: "buyer@example.com",
		Type:  MailTypeSignUp,
		Name:  "Ana",
	})

	require.NoError(t, err)
	assert.Equal(t, "Merch <hola@payperapp.io>", received.From)
	assert.Equal(t, []string{"buyer@example.com"}, received.To)
	assert.Equal(t, "Welcome aboard", received.Subject)
	assert.Contains(t, received.HTML, "Ana")
}

func TestMailSend_NewOrderEmbedsQR(t *testing.T) {
	var received resendSendRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(resendSendReply{ID: "mail-2"})
	}))
	defer server.Close()

	svc := NewMailService(server.URL, "test-key", "Merch <hola@payperapp.io>", 5*time.Second)

	err := svc.Send(context.Background(), &MailRequest{
		Email:         "buyer@example.com",
		Type:          MailTypeNewOrder,
		OrderNumber:   "ORD-20260828-ABC123",
		EventTitle:    "Concert",
		EventDate:     "2026-09-01",
		EventLocation: "Arena",
		TotalAmount:   2100,
		Currency:      "ARS",
		QRCode:        "QR-1756300000000-ABCDE12345",
	})

	require.NoError(t, err)
	assert.Contains(t, received.Subject, "ORD-20260828-ABC123")
	assert.Contains(t, received.HTML, "Concert")
	assert.Contains(t, received.HTML, "2100.00 ARS")
	assert.Contains(t, received.HTML, "data:image/png;base64,")
}

func TestMailSend_Reminder(t *testing.T) {
	var received resendSendRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(resendSendReply{ID: "mail-3"})
	}))
	defer server.Close()

	svc := NewMailService(server.URL, "test-key", "Merch <hola@payperapp.io>", 5*time.Second)

	err := svc.Send(context.Background(), &MailRequest{
		Email:      "buyer@example.com",
		Type:       MailTypeReminder,
		EventTitle: "Concert",
		EventDate:  "2026-09-01",
	})

	require.NoError(t, err)
	assert.Equal(t, "Reminder: Concert", received.Subject)
	assert.NotContains(t, received.HTML, "base64")
}

func TestMailSend_ValidatesBeforeNetwork(t *testing.T) {
	// No server at this address; validation must fail first.
	svc := NewMailService("http://127.0.0.1:1", "test-key", "from@example.com", time.Second)

	err := svc.Send(context.Background(), &MailRequest{Type: MailTypeSignUp})
	assert.True(t, status.IsValidation(err))
	assert.Contains(t, err.Error(), "email")

	err = svc.Send(context.Background(), &MailRequest{Email: "a@b.c", Type: "marketing_blast"})
	assert.True(t, status.IsValidation(err))
	assert.Contains(t, err.Error(), "type")
}

func TestMailSend_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer server.Close()

	svc := NewMailService(server.URL, "test-key", "nope", 5*time.Second)

	err := svc.Send(context.Background(), &MailRequest{
		Email: "buyer@example.com",
		Type:  MailTypeSignUp,
	})

	assert.Error(t, err)
	assert.True(t, status.IsUpstream(err))
}
