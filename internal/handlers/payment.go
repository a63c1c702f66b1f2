package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/khanadev/kms/internal/logging"
	"github.com/khanadev/kms/internal/mykafka"
	"github.com/khanadev/kms/internal/service"
	"github.com/khanadev/kms/internal/transport"
)

type PaymentHandler struct {
	Svc      *service.PaymentService
	Producer *mykafka.Producer
}

func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.initiate")

	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req transport.InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.InitiatePayment(ctx, p, req.OrderID)
	if err != nil {
		l.Warn("initiate_payment_error", "order_id", req.OrderID, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "payment_events", fmt.Sprint(result.Payment.ID), map[string]any{
		"type":       "payment_initiated",
		"payment_id": result.Payment.ID,
		"order_id":   result.Payment.OrderID,
		"amount":     result.Payment.Amount,
	})

	l.Info("initiate_payment_success", "payment_id", result.Payment.ID, "order_id", req.OrderID)
	return c.JSON(http.StatusCreated, result)
}

func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.confirm")

	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	result, err := h.Svc.ConfirmPayment(ctx, p, id)
	if err != nil {
		l.Warn("confirm_payment_error", "payment_id", id, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "payment_events", fmt.Sprint(result.Payment.ID), map[string]any{
		"type":       "payment_settled",
		"payment_id": result.Payment.ID,
		"order_id":   result.Payment.OrderID,
		"status":     result.Payment.Status,
	})

	l.Info("confirm_payment_success", "payment_id", id, "order_id", result.Order.ID)
	return c.JSON(http.StatusOK, result)
}

// Webhook is the mock provider callback. It is unauthenticated, like the
// provider endpoint it imitates; idempotency is enforced in the service.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.webhook")

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var req transport.PaymentWebhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.HandleWebhook(ctx, req, raw); err != nil {
		l.Warn("webhook_error", "order_id", req.OrderID, "provider_status", req.Status, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "payment_events", fmt.Sprint(req.OrderID), map[string]any{
		"type":            "payment_settled",
		"order_id":        req.OrderID,
		"provider_status": req.Status,
	})

	l.Info("webhook_processed", "order_id", req.OrderID, "provider_status", req.Status)
	return c.JSON(http.StatusOK, echo.Map{"message": "webhook processed"})
}

func (h *PaymentHandler) GetPaymentForOrder(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	orderID, err := idParam(c, "orderId")
	if err != nil {
		return err
	}

	payment, err := h.Svc.GetPaymentForOrder(c.Request().Context(), p, orderID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, payment)
}
