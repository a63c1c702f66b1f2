package repo

import (
	"context"

	"github.com/khanadev/kms/internal/models"
)

func (r *GormRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.DB.WithContext(ctx).Create(payment).Error
}

func (r *GormRepo) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.DB.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *GormRepo) GetPaymentByOrder(ctx context.Context, orderID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id DESC").
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// ActivePaymentExists reports whether the order already has a payment in
// PENDING or SUCCESS, which blocks initiating another one.
func (r *GormRepo) ActivePaymentExists(ctx context.Context, orderID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("order_id = ? AND status IN ?", orderID, []string{models.PaymentPending, models.PaymentSuccess}).
		Count(&count).Error
	return count > 0, err
}

// SettlePayment moves a PENDING payment to a terminal status as a
// compare-and-swap, so a redelivered webhook or a racing confirm cannot settle
// the same payment twice.
func (r *GormRepo) SettlePayment(ctx context.Context, id uint, updates map[string]any) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
