package repo

import (
	"context"

	"github.com/khanadev/kms/internal/models"
)

func (r *GormRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) ListMenuByCanteen(ctx context.Context, canteenID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.DB.WithContext(ctx).Where("canteen_id = ?", canteenID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) UpdateMenuItem(ctx context.Context, id uint, updates map[string]any) (*models.MenuItem, error) {
	if err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetMenuItem(ctx, id)
}

func (r *GormRepo) DeleteMenuItem(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.MenuItem{}, id).Error
}
