package service

import (
	"context"
	"fmt"
	"time"

	"github.com/khanadev/kms/internal/auth"
	"github.com/khanadev/kms/internal/models"
	"github.com/khanadev/kms/internal/repo"
)

// EarningsService derives completed-order rollups per canteen. It owns no
// state; everything is recomputed per request from the order store, which
// leaves room to materialize the sums later without changing the interface.
type EarningsService struct {
	Repo *repo.GormRepo
}

type CanteenEarnings struct {
	CompletedOrders []models.Order `json:"completed_orders"`
	DailyTotal      float64        `json:"daily_total"`
	MonthlyTotal    float64        `json:"monthly_total"`
}

// GetCanteenEarnings returns the canteen's completed orders (newest first)
// plus the completed totals for the current UTC day and calendar month.
// Attribution uses the order's last update time, the moment it was marked
// COMPLETED.
func (s *EarningsService) GetCanteenEarnings(ctx context.Context, p auth.Principal, canteenID uint) (*CanteenEarnings, error) {
	if !auth.CanActOnCanteen(p, canteenID) {
		return nil, fmt.Errorf("%w: not authorized to view earnings for this canteen", ErrForbidden)
	}

	completed, err := s.Repo.ListCompletedOrders(ctx, canteenID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	daily, err := s.Repo.SumCompletedBetween(ctx, canteenID, startOfDay, startOfDay.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	monthly, err := s.Repo.SumCompletedBetween(ctx, canteenID, startOfMonth, startOfMonth.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	return &CanteenEarnings{
		CompletedOrders: completed,
		DailyTotal:      daily,
		MonthlyTotal:    monthly,
	}, nil
}
