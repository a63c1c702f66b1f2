package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/khanadev/kms/internal/auth"
	"github.com/khanadev/kms/internal/logging"
	"github.com/khanadev/kms/internal/models"
	"github.com/khanadev/kms/internal/mykafka"
	"github.com/khanadev/kms/internal/service"
	"github.com/khanadev/kms/internal/transport"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Earnings *service.EarningsService
	Producer *mykafka.Producer
}

func (h *OrderHandler) publishStatusChange(c echo.Context, order *models.Order) {
	publish(c, h.Producer, "order_events", fmt.Sprint(order.ID), map[string]any{
		"type":       "order_status_changed",
		"order_id":   order.ID,
		"canteen_id": order.CanteenID,
		"status":     order.Status,
	})
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, p, req)
	if err != nil {
		l.Warn("create_order_error", "canteen_id", req.CanteenID, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(order.ID), map[string]any{
		"type":         "order_created",
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"canteen_id":   order.CanteenID,
		"total_amount": order.TotalAmount,
		"is_bulk":      order.IsBulkOrder,
	})

	l.Info("create_order_success", "order_id", order.ID, "total", order.TotalAmount)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), p, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	offset, limit := pageParams(c)
	orders, err := h.Svc.ListMyOrders(c.Request().Context(), p, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	offset, limit := pageParams(c)
	orders, err := h.Svc.ListAllOrders(c.Request().Context(), p, c.QueryParam("status"), offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListCanteenOrders(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	canteenID, err := idParam(c, "canteenId")
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListCanteenOrders(c.Request().Context(), p, canteenID, c.QueryParam("status"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetCanteenEarnings(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	canteenID, err := idParam(c, "canteenId")
	if err != nil {
		return err
	}

	earnings, err := h.Earnings.GetCanteenEarnings(c.Request().Context(), p, canteenID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, earnings)
}

func (h *OrderHandler) AcceptOrder(c echo.Context) error {
	return h.transition(c, "order.accept", h.Svc.AcceptOrder)
}

func (h *OrderHandler) PrepareOrder(c echo.Context) error {
	return h.transition(c, "order.prepare", h.Svc.PrepareOrder)
}

func (h *OrderHandler) ReadyOrder(c echo.Context) error {
	return h.transition(c, "order.ready", h.Svc.ReadyOrder)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	return h.transition(c, "order.cancel", h.Svc.CancelOrder)
}

func (h *OrderHandler) CompleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.complete")

	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req transport.CompleteOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CompleteOrder(ctx, p, id, req.PickupCode)
	if err != nil {
		l.Warn("complete_order_error", "order_id", id, "error", err)
		return httpError(err)
	}

	h.publishStatusChange(c, order)
	l.Info("complete_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) transition(c echo.Context, name string, fn func(context.Context, auth.Principal, uint) (*models.Order, error)) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	order, err := fn(ctx, p, id)
	if err != nil {
		l.Warn("transition_error", "order_id", id, "error", err)
		return httpError(err)
	}

	h.publishStatusChange(c, order)
	l.Info("transition_success", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}
