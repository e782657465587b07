package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payper-storefront/models"
	"payper-storefront/services"
)

func newPurchaseEvent(body string, auth *core.Record) (*core.RequestEvent, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/purchase", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	evt := &core.RequestEvent{}
	evt.Request = req
	evt.Response = rec
	evt.Auth = auth
	return evt, rec
}

func TestCreatePurchase_InvalidJSON(t *testing.T) {
	handler := NewPurchaseHandler(services.NewOrderService(nil, nil, nil, "ARS"))

	evt, _ := newPurchaseEvent(`not json`, newAuthRecord("buyer1", models.RoleBuyer))

	err := handler.CreatePurchase(evt)

	require.Error(t, err)
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestCreatePurchase_UserMismatch(t *testing.T) {
	handler := NewPurchaseHandler(services.NewOrderService(nil, nil, nil, "ARS"))

	evt, _ := newPurchaseEvent(
		`{"userId":"someone-else","eventId":"evt1","cartItems":[{"ticketTypeId":"tt1","quantity":1}],"paymentMethod":"card","totalAmount":100}`,
		newAuthRecord("buyer1", models.RoleBuyer),
	)

	err := handler.CreatePurchase(evt)

	require.Error(t, err)
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestCreatePurchase_EmptyCartRejected(t *testing.T) {
	handler := NewPurchaseHandler(services.NewOrderService(nil, nil, nil, "ARS"))

	evt, _ := newPurchaseEvent(
		`{"userId":"buyer1","eventId":"evt1","cartItems":[],"paymentMethod":"card","totalAmount":100}`,
		newAuthRecord("buyer1", models.RoleBuyer),
	)

	err := handler.CreatePurchase(evt)

	require.Error(t, err)
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "cart is empty")
}

func TestCreatePurchase_UnsupportedPaymentMethod(t *testing.T) {
	handler := NewPurchaseHandler(services.NewOrderService(nil, nil, nil, "ARS"))

	evt, _ := newPurchaseEvent(
		`{"userId":"buyer1","eventId":"evt1","cartItems":[{"ticketTypeId":"tt1","quantity":1}],"paymentMethod":"wallet","totalAmount":100}`,
		newAuthRecord("buyer1", models.RoleBuyer),
	)

	err := handler.CreatePurchase(evt)

	require.Error(t, err)
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}
