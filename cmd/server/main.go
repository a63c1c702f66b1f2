package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/khanadev/kms/internal/config"
	"github.com/khanadev/kms/internal/handlers"
	"github.com/khanadev/kms/internal/logging"
	"github.com/khanadev/kms/internal/mykafka"
	"github.com/khanadev/kms/internal/repo"
	"github.com/khanadev/kms/internal/service"
	httpserver "github.com/khanadev/kms/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	prod, err := mykafka.NewProducer(configuration.KAFKA_BROKERS)
	if err != nil {
		log.Fatal(err)
	}

	r := &repo.GormRepo{DB: db}
	orderSvc := &service.OrderService{Repo: r}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		AuthHandler: &handlers.AuthHandler{
			Svc:      &service.AuthService{Repo: r, JWTSecret: jwtSecret, TokenTTL: configuration.JWTTTL()},
			Producer: prod,
		},
		CanteenHandler: &handlers.CanteenHandler{Svc: &service.CanteenService{Repo: r}},
		MenuHandler:    &handlers.MenuHandler{Svc: &service.MenuService{Repo: r}},
		OrderHandler: &handlers.OrderHandler{
			Svc:      orderSvc,
			Earnings: &service.EarningsService{Repo: r},
			Producer: prod,
		},
		PaymentHandler: &handlers.PaymentHandler{
			Svc:      &service.PaymentService{Repo: r, Orders: orderSvc},
			Producer: prod,
		},
		JWTSecret: jwtSecret,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.SERVER_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
