package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanadev/kms/internal/models"
	"github.com/khanadev/kms/internal/transport"
)

func TestInitiateAndConfirmPaymentHandlers(t *testing.T) {
	env := newTestEnv(t)
	h := &PaymentHandler{Svc: env.payments, Producer: env.producer}
	ctx := context.Background()

	canteen := env.seedCanteen(t)
	item := env.seedMenuItem(t, canteen.ID, "Samosa", 50)

	order, err := env.orders.CreateOrder(ctx, *student(1), transport.CreateOrderRequest{
		CanteenID: canteen.ID,
		Items:     []transport.CreateOrderItem{{MenuItemID: item.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	body := fmt.Sprintf(`{"order_id":%d}`, order.ID)
	c, rec := env.newContext(http.MethodPost, "/api/payments/initiate", body, student(1), nil)
	require.NoError(t, h.InitiatePayment(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var initiated struct {
		Payment    models.Payment `json:"payment"`
		PaymentURL string         `json:"payment_url"`
		QRData     string         `json:"qr_data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &initiated))
	assert.Equal(t, models.PaymentPending, initiated.Payment.Status)
	assert.Equal(t, float64(100), initiated.Payment.Amount)
	assert.Contains(t, initiated.PaymentURL, "paytm://pay")

	c, rec = env.newContext(http.MethodPost, "/", "", student(1), map[string]string{"id": fmt.Sprint(initiated.Payment.ID)})
	require.NoError(t, h.ConfirmPayment(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var confirmed struct {
		Payment models.Payment `json:"payment"`
		Order   models.Order   `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirmed))
	assert.Equal(t, models.PaymentSuccess, confirmed.Payment.Status)
	assert.Equal(t, models.OrderPaid, confirmed.Order.Status)
	require.NotNil(t, confirmed.Order.PickupCode)
}

func TestWebhookHandler(t *testing.T) {
	env := newTestEnv(t)
	h := &PaymentHandler{Svc: env.payments, Producer: env.producer}
	ctx := context.Background()

	canteen := env.seedCanteen(t)
	item := env.seedMenuItem(t, canteen.ID, "Samosa", 50)

	order, err := env.orders.CreateOrder(ctx, *student(1), transport.CreateOrderRequest{
		CanteenID: canteen.ID,
		Items:     []transport.CreateOrderItem{{MenuItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = env.payments.InitiatePayment(ctx, *student(1), order.ID)
	require.NoError(t, err)

	// Webhooks are unauthenticated; no principal on the context.
	body := fmt.Sprintf(`{"order_id":%d,"status":"TXN_SUCCESS","transaction_id":"TXN-wh-1"}`, order.ID)
	c, rec := env.newContext(http.MethodPost, "/api/payments/webhook/paytm", body, nil, nil)
	require.NoError(t, h.Webhook(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := env.repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, stored.Status)

	// Redelivery conflicts instead of re-settling.
	c, _ = env.newContext(http.MethodPost, "/api/payments/webhook/paytm", body, nil, nil)
	assert.Equal(t, http.StatusConflict, httpStatus(t, h.Webhook(c)))
}

func TestWebhookHandler_NoPayment(t *testing.T) {
	env := newTestEnv(t)
	h := &PaymentHandler{Svc: env.payments, Producer: env.producer}

	c, _ := env.newContext(http.MethodPost, "/api/payments/webhook/paytm", `{"order_id":999,"status":"TXN_SUCCESS"}`, nil, nil)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, h.Webhook(c)))
}

func TestWebhookHandler_MalformedBody(t *testing.T) {
	env := newTestEnv(t)
	h := &PaymentHandler{Svc: env.payments, Producer: env.producer}

	c, _ := env.newContext(http.MethodPost, "/api/payments/webhook/paytm", `{not json`, nil, nil)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.Webhook(c)))
}

func TestGetPaymentForOrderHandler(t *testing.T) {
	env := newTestEnv(t)
	h := &PaymentHandler{Svc: env.payments, Producer: env.producer}
	ctx := context.Background()

	canteen := env.seedCanteen(t)
	item := env.seedMenuItem(t, canteen.ID, "Samosa", 50)

	order, err := env.orders.CreateOrder(ctx, *student(1), transport.CreateOrderRequest{
		CanteenID: canteen.ID,
		Items:     []transport.CreateOrderItem{{MenuItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = env.payments.InitiatePayment(ctx, *student(1), order.ID)
	require.NoError(t, err)

	orderID := fmt.Sprint(order.ID)
	c, rec := env.newContext(http.MethodGet, "/", "", student(1), map[string]string{"orderId": orderID})
	require.NoError(t, h.GetPaymentForOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = env.newContext(http.MethodGet, "/", "", student(7), map[string]string{"orderId": orderID})
	assert.Equal(t, http.StatusForbidden, httpStatus(t, h.GetPaymentForOrder(c)))
}
