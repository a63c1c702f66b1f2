package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/khanadev/kms/internal/auth"
	"github.com/khanadev/kms/internal/hash"
	"github.com/khanadev/kms/internal/models"
	"github.com/khanadev/kms/internal/repo"
	"github.com/khanadev/kms/internal/transport"
)

const defaultStaffPassword = "canteen123"

type CanteenService struct {
	Repo *repo.GormRepo
}

// StaffCredentials are returned exactly once, when the canteen is created.
type StaffCredentials struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	CanteenID uint   `json:"canteen_id"`
}

type CreateCanteenResult struct {
	Canteen     *models.Canteen   `json:"canteen"`
	Credentials *StaffCredentials `json:"credentials"`
}

func (s *CanteenService) ListCanteens(ctx context.Context) ([]models.Canteen, error) {
	return s.Repo.ListCanteens(ctx)
}

func (s *CanteenService) GetCanteen(ctx context.Context, id uint) (*models.Canteen, error) {
	canteen, err := s.Repo.GetCanteen(ctx, id)
	if err != nil {
		return nil, notFound(err, "canteen not found")
	}
	return canteen, nil
}

// CreateCanteen is admin-only. It also provisions the canteen's staff account
// with default credentials, which the response surfaces exactly once.
func (s *CanteenService) CreateCanteen(ctx context.Context, p auth.Principal, req transport.CreateCanteenRequest) (*CreateCanteenResult, error) {
	if !auth.HasRole(p, models.RoleAdmin) {
		return nil, fmt.Errorf("%w: only admins can create canteens", ErrForbidden)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	maxBulk := req.MaxBulkSize
	if maxBulk == 0 {
		maxBulk = 50
	}

	canteen := &models.Canteen{
		Name:                  strings.TrimSpace(req.Name),
		Location:              strings.TrimSpace(req.Location),
		Description:           req.Description,
		ImageURL:              req.ImageURL,
		IsOpen:                req.IsOpen,
		IsOnlineOrdersEnabled: req.IsOnlineOrdersEnabled,
		MaxBulkSize:           maxBulk,
	}
	if err := s.Repo.CreateCanteen(ctx, canteen); err != nil {
		return nil, err
	}

	staffEmail := strings.ToLower(strings.ReplaceAll(canteen.Name, " ", "")) + "@kms.com"
	passwordHash, err := hash.HashPassword(defaultStaffPassword)
	if err != nil {
		return nil, err
	}

	staff := &models.User{
		Name:         canteen.Name + " Staff",
		Email:        staffEmail,
		PasswordHash: passwordHash,
		Role:         models.RoleCanteen,
		CanteenID:    &canteen.ID,
	}
	if err := s.Repo.CreateUser(ctx, staff); err != nil {
		return nil, fmt.Errorf("%w: staff account for this canteen already exists", ErrConflict)
	}

	return &CreateCanteenResult{
		Canteen: canteen,
		Credentials: &StaffCredentials{
			Email:     staffEmail,
			Password:  defaultStaffPassword,
			CanteenID: canteen.ID,
		},
	}, nil
}

func (s *CanteenService) UpdateCanteen(ctx context.Context, p auth.Principal, id uint, req transport.UpdateCanteenRequest) (*models.Canteen, error) {
	if _, err := s.Repo.GetCanteen(ctx, id); err != nil {
		return nil, notFound(err, "canteen not found")
	}
	if !auth.CanActOnCanteen(p, id) {
		return nil, fmt.Errorf("%w: not authorized to update this canteen", ErrForbidden)
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsOpen != nil {
		updates["is_open"] = *req.IsOpen
	}
	if req.IsOnlineOrdersEnabled != nil {
		updates["is_online_orders_enabled"] = *req.IsOnlineOrdersEnabled
	}
	if req.MaxBulkSize != nil {
		updates["max_bulk_size"] = *req.MaxBulkSize
	}
	if len(updates) == 0 {
		return s.Repo.GetCanteen(ctx, id)
	}

	return s.Repo.UpdateCanteen(ctx, id, updates)
}

func (s *CanteenService) ToggleOpen(ctx context.Context, p auth.Principal, id uint) (*models.Canteen, error) {
	canteen, err := s.Repo.GetCanteen(ctx, id)
	if err != nil {
		return nil, notFound(err, "canteen not found")
	}
	if !auth.CanActOnCanteen(p, id) {
		return nil, fmt.Errorf("%w: not authorized to update this canteen", ErrForbidden)
	}
	return s.Repo.UpdateCanteen(ctx, id, map[string]any{"is_open": !canteen.IsOpen})
}

func (s *CanteenService) ToggleOnlineOrders(ctx context.Context, p auth.Principal, id uint) (*models.Canteen, error) {
	canteen, err := s.Repo.GetCanteen(ctx, id)
	if err != nil {
		return nil, notFound(err, "canteen not found")
	}
	if !auth.CanActOnCanteen(p, id) {
		return nil, fmt.Errorf("%w: not authorized to update this canteen", ErrForbidden)
	}
	return s.Repo.UpdateCanteen(ctx, id, map[string]any{"is_online_orders_enabled": !canteen.IsOnlineOrdersEnabled})
}

func (s *CanteenService) DeleteCanteen(ctx context.Context, p auth.Principal, id uint) error {
	if !auth.HasRole(p, models.RoleAdmin) {
		return fmt.Errorf("%w: only admins can delete canteens", ErrForbidden)
	}
	if _, err := s.Repo.GetCanteen(ctx, id); err != nil {
		return notFound(err, "canteen not found")
	}
	return s.Repo.DeleteCanteen(ctx, id)
}
