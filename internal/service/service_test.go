package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/khanadev/kms/internal/auth"
	"github.com/khanadev/kms/internal/config"
	"github.com/khanadev/kms/internal/models"
	"github.com/khanadev/kms/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return &repo.GormRepo{DB: db}
}

func createCanteen(t *testing.T, r *repo.GormRepo, open, online bool, maxBulk uint) *models.Canteen {
	t.Helper()
	canteen := &models.Canteen{
		Name:                  "Main Canteen",
		Location:              "Block A",
		IsOpen:                open,
		IsOnlineOrdersEnabled: online,
		MaxBulkSize:           maxBulk,
	}
	require.NoError(t, r.CreateCanteen(context.Background(), canteen))
	return canteen
}

func createMenuItem(t *testing.T, r *repo.GormRepo, canteenID uint, name string, price float64, available bool) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		CanteenID:   canteenID,
		Name:        name,
		Price:       price,
		IsAvailable: available,
		IsVeg:       true,
	}
	require.NoError(t, r.CreateMenuItem(context.Background(), item))
	return item
}

func studentPrincipal(id uint) auth.Principal {
	return auth.Principal{ID: id, Role: models.RoleStudent}
}

func staffPrincipal(id, canteenID uint) auth.Principal {
	return auth.Principal{ID: id, Role: models.RoleCanteen, CanteenID: &canteenID}
}

func adminPrincipal(id uint) auth.Principal {
	return auth.Principal{ID: id, Role: models.RoleAdmin}
}
