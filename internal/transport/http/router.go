package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/khanadev/kms/internal/handlers"
	"github.com/khanadev/kms/internal/middleware"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	CanteenHandler *handlers.CanteenHandler
	MenuHandler    *handlers.MenuHandler
	OrderHandler   *handlers.OrderHandler
	PaymentHandler *handlers.PaymentHandler
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")
	protect := middleware.JWT(d.JWTSecret)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", d.AuthHandler.Register)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.GET("/me", d.AuthHandler.Me, protect)
	authGroup.PUT("/profile", d.AuthHandler.UpdateProfile, protect)
	authGroup.PUT("/password", d.AuthHandler.ChangePassword, protect)

	canteens := api.Group("/canteens")
	canteens.GET("", d.CanteenHandler.ListCanteens)
	canteens.GET("/:id", d.CanteenHandler.GetCanteen)
	canteens.POST("", d.CanteenHandler.CreateCanteen, protect)
	canteens.PUT("/:id", d.CanteenHandler.UpdateCanteen, protect)
	canteens.POST("/:id/toggle-open", d.CanteenHandler.ToggleOpen, protect)
	canteens.POST("/:id/toggle-online-orders", d.CanteenHandler.ToggleOnlineOrders, protect)
	canteens.DELETE("/:id", d.CanteenHandler.DeleteCanteen, protect)

	menu := api.Group("/menu")
	menu.GET("/canteen/:canteenId", d.MenuHandler.ListCanteenMenu)
	menu.GET("/:id", d.MenuHandler.GetMenuItem)
	menu.POST("", d.MenuHandler.CreateMenuItem, protect)
	menu.PUT("/:id", d.MenuHandler.UpdateMenuItem, protect)
	menu.PATCH("/:id/toggle-availability", d.MenuHandler.ToggleAvailability, protect)
	menu.DELETE("/:id", d.MenuHandler.DeleteMenuItem, protect)

	orders := api.Group("/orders", protect)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/my", d.OrderHandler.ListMyOrders)
	orders.GET("/all", d.OrderHandler.ListAllOrders)
	orders.GET("/canteen/:canteenId", d.OrderHandler.ListCanteenOrders)
	orders.GET("/canteen/:canteenId/completed", d.OrderHandler.GetCanteenEarnings)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/:id/accept", d.OrderHandler.AcceptOrder)
	orders.POST("/:id/prepare", d.OrderHandler.PrepareOrder)
	orders.POST("/:id/ready", d.OrderHandler.ReadyOrder)
	orders.POST("/:id/complete", d.OrderHandler.CompleteOrder)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder)

	payments := api.Group("/payments")
	payments.POST("/initiate", d.PaymentHandler.InitiatePayment, protect)
	payments.POST("/:id/confirm", d.PaymentHandler.ConfirmPayment, protect)
	payments.POST("/webhook/paytm", d.PaymentHandler.Webhook)
	payments.GET("/order/:orderId", d.PaymentHandler.GetPaymentForOrder, protect)
}
