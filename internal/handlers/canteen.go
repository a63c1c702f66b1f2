package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/khanadev/kms/internal/logging"
	"github.com/khanadev/kms/internal/service"
	"github.com/khanadev/kms/internal/transport"
)

type CanteenHandler struct {
	Svc *service.CanteenService
}

func (h *CanteenHandler) ListCanteens(c echo.Context) error {
	canteens, err := h.Svc.ListCanteens(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, canteens)
}

func (h *CanteenHandler) GetCanteen(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	canteen, err := h.Svc.GetCanteen(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, canteen)
}

func (h *CanteenHandler) CreateCanteen(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "canteen.create")

	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req transport.CreateCanteenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.CreateCanteen(ctx, p, req)
	if err != nil {
		l.Warn("create_canteen_error", "error", err)
		return httpError(err)
	}

	l.Info("create_canteen_success", "canteen_id", result.Canteen.ID)
	return c.JSON(http.StatusCreated, result)
}

func (h *CanteenHandler) UpdateCanteen(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateCanteenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	canteen, err := h.Svc.UpdateCanteen(c.Request().Context(), p, id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, canteen)
}

func (h *CanteenHandler) ToggleOpen(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	canteen, err := h.Svc.ToggleOpen(c.Request().Context(), p, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, canteen)
}

func (h *CanteenHandler) ToggleOnlineOrders(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	canteen, err := h.Svc.ToggleOnlineOrders(c.Request().Context(), p, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, canteen)
}

func (h *CanteenHandler) DeleteCanteen(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteCanteen(c.Request().Context(), p, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
