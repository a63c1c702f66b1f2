package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/khanadev/kms/internal/auth"
	"github.com/khanadev/kms/internal/models"
	"github.com/khanadev/kms/internal/repo"
	"github.com/khanadev/kms/internal/transport"
)

const providerMock = "MOCK"

// PaymentService owns payment settlement: it creates PENDING payment records,
// settles them exactly once (caller-driven confirm or provider webhook) and
// drives the associated order to PAID or FAILED.
type PaymentService struct {
	Repo   *repo.GormRepo
	Orders *OrderService
}

type InitiatePaymentResult struct {
	Payment    *models.Payment `json:"payment"`
	PaymentURL string          `json:"payment_url"`
	QRData     string          `json:"qr_data"`
}

type ConfirmPaymentResult struct {
	Payment *models.Payment `json:"payment"`
	Order   *models.Order   `json:"order"`
}

// InitiatePayment creates a PENDING payment for a CREATED order owned by the
// caller. The amount is copied from the order's server-computed total, never
// taken from the request. At most one PENDING/SUCCESS payment may exist per
// order.
func (s *PaymentService) InitiatePayment(ctx context.Context, p auth.Principal, orderID uint) (*InitiatePaymentResult, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "order not found")
	}
	if order.UserID != p.ID {
		return nil, fmt.Errorf("%w: not authorized to pay for this order", ErrForbidden)
	}
	if order.Status != models.OrderCreated {
		return nil, fmt.Errorf("%w: order is not in a payable state", ErrInvalidState)
	}

	exists, err := s.Repo.ActivePaymentExists(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: payment already initiated for this order", ErrConflict)
	}

	payment := &models.Payment{
		OrderID:  orderID,
		UserID:   p.ID,
		Provider: providerMock,
		Amount:   order.TotalAmount,
		Status:   models.PaymentPending,
	}
	if err := s.Repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	qr, _ := json.Marshal(map[string]any{
		"payment_id": payment.ID,
		"order_id":   orderID,
		"amount":     order.TotalAmount,
	})

	return &InitiatePaymentResult{
		Payment:    payment,
		PaymentURL: fmt.Sprintf("paytm://pay?amount=%.2f&orderId=%d&paymentId=%d", order.TotalAmount, orderID, payment.ID),
		QRData:     string(qr),
	}, nil
}

// ConfirmPayment settles a PENDING payment owned by the caller as SUCCESS and
// drives the order to PAID. The mock provider issues the transaction
// reference here.
func (s *PaymentService) ConfirmPayment(ctx context.Context, p auth.Principal, paymentID uint) (*ConfirmPaymentResult, error) {
	payment, err := s.Repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, notFound(err, "payment not found")
	}
	if payment.UserID != p.ID {
		return nil, fmt.Errorf("%w: not authorized to confirm this payment", ErrForbidden)
	}
	if payment.Status != models.PaymentPending {
		return nil, fmt.Errorf("%w: payment is not in pending state", ErrInvalidState)
	}

	transactionID := "TXN-" + uuid.NewString()
	details, _ := json.Marshal(map[string]any{"mock_confirmation": true})

	swapped, err := s.Repo.SettlePayment(ctx, paymentID, map[string]any{
		"status":         models.PaymentSuccess,
		"transaction_id": transactionID,
		"details":        string(details),
	})
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, fmt.Errorf("%w: payment already settled", ErrConflict)
	}

	order, err := s.Orders.MarkPaid(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	payment, err = s.Repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	return &ConfirmPaymentResult{Payment: payment, Order: order}, nil
}

// HandleWebhook settles a payment from a provider callback. A payment that is
// already SUCCESS or FAILED rejects redelivery with a conflict, so a repeated
// webhook can neither regenerate a pickup code nor flip a terminal state.
func (s *PaymentService) HandleWebhook(ctx context.Context, req transport.PaymentWebhookRequest, rawPayload []byte) error {
	payment, err := s.Repo.GetPaymentByOrder(ctx, req.OrderID)
	if err != nil {
		return notFound(err, "payment not found")
	}
	if payment.Status != models.PaymentPending {
		return fmt.Errorf("%w: payment already settled", ErrConflict)
	}

	newStatus := models.PaymentFailed
	if req.Status == "TXN_SUCCESS" {
		newStatus = models.PaymentSuccess
	}

	updates := map[string]any{
		"status":  newStatus,
		"details": string(rawPayload),
	}
	if req.TransactionID != "" {
		updates["transaction_id"] = req.TransactionID
	}

	swapped, err := s.Repo.SettlePayment(ctx, payment.ID, updates)
	if err != nil {
		return err
	}
	if !swapped {
		return fmt.Errorf("%w: payment already settled", ErrConflict)
	}

	if newStatus == models.PaymentSuccess {
		_, err = s.Orders.MarkPaid(ctx, req.OrderID)
	} else {
		_, err = s.Orders.MarkFailed(ctx, req.OrderID)
	}
	return err
}

// GetPaymentForOrder is visible to the payment owner and admins only.
func (s *PaymentService) GetPaymentForOrder(ctx context.Context, p auth.Principal, orderID uint) (*models.Payment, error) {
	payment, err := s.Repo.GetPaymentByOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "payment not found")
	}
	if payment.UserID != p.ID && !auth.HasRole(p, models.RoleAdmin) {
		return nil, fmt.Errorf("%w: not authorized to view this payment", ErrForbidden)
	}
	return payment, nil
}
