package repo

import (
	"context"

	"github.com/khanadev/kms/internal/models"
)

func (r *GormRepo) CreateCanteen(ctx context.Context, canteen *models.Canteen) error {
	return r.DB.WithContext(ctx).Create(canteen).Error
}

func (r *GormRepo) GetCanteen(ctx context.Context, id uint) (*models.Canteen, error) {
	var canteen models.Canteen
	if err := r.DB.WithContext(ctx).First(&canteen, id).Error; err != nil {
		return nil, err
	}
	return &canteen, nil
}

func (r *GormRepo) ListCanteens(ctx context.Context) ([]models.Canteen, error) {
	var canteens []models.Canteen
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&canteens).Error; err != nil {
		return nil, err
	}
	return canteens, nil
}

func (r *GormRepo) UpdateCanteen(ctx context.Context, id uint, updates map[string]any) (*models.Canteen, error) {
	if err := r.DB.WithContext(ctx).Model(&models.Canteen{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetCanteen(ctx, id)
}

func (r *GormRepo) DeleteCanteen(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Canteen{}, id).Error
}
