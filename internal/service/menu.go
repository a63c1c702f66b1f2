package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/khanadev/kms/internal/auth"
	"github.com/khanadev/kms/internal/models"
	"github.com/khanadev/kms/internal/repo"
	"github.com/khanadev/kms/internal/transport"
)

type MenuService struct {
	Repo *repo.GormRepo
}

func (s *MenuService) ListCanteenMenu(ctx context.Context, canteenID uint) ([]models.MenuItem, error) {
	return s.Repo.ListMenuByCanteen(ctx, canteenID)
}

func (s *MenuService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "menu item not found")
	}
	return item, nil
}

func (s *MenuService) CreateMenuItem(ctx context.Context, p auth.Principal, req transport.CreateMenuItemRequest) (*models.MenuItem, error) {
	if _, err := s.Repo.GetCanteen(ctx, req.CanteenID); err != nil {
		return nil, notFound(err, "canteen not found")
	}
	if !auth.CanActOnCanteen(p, req.CanteenID) {
		return nil, fmt.Errorf("%w: not authorized to add items to this canteen", ErrForbidden)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	item := &models.MenuItem{
		CanteenID:   req.CanteenID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		IsAvailable: true,
		IsVeg:       true,
		ImageURL:    req.ImageURL,
	}
	if item.Category == "" {
		item.Category = "Snacks"
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.IsVeg != nil {
		item.IsVeg = *req.IsVeg
	}

	if err := s.Repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) UpdateMenuItem(ctx context.Context, p auth.Principal, id uint, req transport.UpdateMenuItemRequest) (*models.MenuItem, error) {
	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "menu item not found")
	}
	if !auth.CanActOnCanteen(p, item.CanteenID) {
		return nil, fmt.Errorf("%w: not authorized to update this menu item", ErrForbidden)
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.IsVeg != nil {
		updates["is_veg"] = *req.IsVeg
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if len(updates) == 0 {
		return item, nil
	}

	return s.Repo.UpdateMenuItem(ctx, id, updates)
}

func (s *MenuService) ToggleAvailability(ctx context.Context, p auth.Principal, id uint) (*models.MenuItem, error) {
	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "menu item not found")
	}
	if !auth.CanActOnCanteen(p, item.CanteenID) {
		return nil, fmt.Errorf("%w: not authorized to update this menu item", ErrForbidden)
	}
	return s.Repo.UpdateMenuItem(ctx, id, map[string]any{"is_available": !item.IsAvailable})
}

func (s *MenuService) DeleteMenuItem(ctx context.Context, p auth.Principal, id uint) error {
	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		return notFound(err, "menu item not found")
	}
	if !auth.CanActOnCanteen(p, item.CanteenID) {
		return fmt.Errorf("%w: not authorized to delete this menu item", ErrForbidden)
	}
	return s.Repo.DeleteMenuItem(ctx, id)
}
