package repo

import (
	"context"
	"time"

	"github.com/khanadev/kms/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrders returns a page of orders, optionally filtered by status.
func (r *GormRepo) ListOrders(ctx context.Context, status string, offset, limit int) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrdersByCanteen(ctx context.Context, canteenID uint, statuses []string) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Preload("Items").
		Where("canteen_id = ?", canteenID).
		Order("created_at DESC")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// TransitionOrder applies a status change as a compare-and-swap: the update
// only lands if the order is still in the expected status. The boolean reports
// whether the swap won; a lost swap means another request moved the order
// first.
func (r *GormRepo) TransitionOrder(ctx context.Context, id uint, expected string, updates map[string]any) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RedeemPickupCode completes a READY order, flipping the used flag in the same
// atomic update so two concurrent redemptions cannot both succeed.
func (r *GormRepo) RedeemPickupCode(ctx context.Context, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ? AND pickup_code_used = ?", id, models.OrderReady, false).
		Updates(map[string]any{
			"status":           models.OrderCompleted,
			"pickup_code_used": true,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ListCompletedOrders(ctx context.Context, canteenID uint) ([]models.Order, error) {
	return r.ListOrdersByCanteen(ctx, canteenID, []string{models.OrderCompleted})
}

// SumCompletedBetween sums completed-order totals attributed by last update
// time, i.e. the moment the order was marked COMPLETED.
func (r *GormRepo) SumCompletedBetween(ctx context.Context, canteenID uint, from, to time.Time) (float64, error) {
	var total float64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("canteen_id = ? AND status = ? AND updated_at >= ? AND updated_at < ?",
			canteenID, models.OrderCompleted, from, to).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
