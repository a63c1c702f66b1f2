package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanadev/kms/internal/transport"
)

func TestCreateCanteen_ProvisionsStaffAccount(t *testing.T) {
	r := newTestRepo(t)
	canteens := &CanteenService{Repo: r}
	ctx := context.Background()

	result, err := canteens.CreateCanteen(ctx, adminPrincipal(1), transport.CreateCanteenRequest{
		Name:                  "North Mess",
		Location:              "Block C",
		IsOpen:                true,
		IsOnlineOrdersEnabled: true,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(50), result.Canteen.MaxBulkSize, "bulk threshold defaults when omitted")
	require.NotNil(t, result.Credentials)
	assert.Equal(t, "northmess@kms.com", result.Credentials.Email)
	assert.Equal(t, result.Canteen.ID, result.Credentials.CanteenID)

	// The provisioned account can actually log in.
	authSvc := &AuthService{Repo: r, JWTSecret: []byte("test-secret"), TokenTTL: time.Hour}
	staff, _, err := authSvc.Login(ctx, transport.LoginRequest{
		Email:    result.Credentials.Email,
		Password: result.Credentials.Password,
	})
	require.NoError(t, err)
	require.NotNil(t, staff.CanteenID)
	assert.Equal(t, result.Canteen.ID, *staff.CanteenID)
}

func TestCreateCanteen_Guards(t *testing.T) {
	canteens := &CanteenService{Repo: newTestRepo(t)}
	ctx := context.Background()

	_, err := canteens.CreateCanteen(ctx, studentPrincipal(1), transport.CreateCanteenRequest{Name: "X"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = canteens.CreateCanteen(ctx, staffPrincipal(2, 1), transport.CreateCanteenRequest{Name: "X"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = canteens.CreateCanteen(ctx, adminPrincipal(1), transport.CreateCanteenRequest{Name: "  "})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateCanteen_Ownership(t *testing.T) {
	r := newTestRepo(t)
	canteens := &CanteenService{Repo: r}
	ctx := context.Background()

	canteen := createCanteen(t, r, true, true, 50)
	newName := "Renamed Canteen"

	updated, err := canteens.UpdateCanteen(ctx, staffPrincipal(2, canteen.ID), canteen.ID, transport.UpdateCanteenRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)

	_, err = canteens.UpdateCanteen(ctx, staffPrincipal(3, canteen.ID+1), canteen.ID, transport.UpdateCanteenRequest{Name: &newName})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = canteens.UpdateCanteen(ctx, adminPrincipal(1), 999, transport.UpdateCanteenRequest{Name: &newName})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestToggles(t *testing.T) {
	r := newTestRepo(t)
	canteens := &CanteenService{Repo: r}
	ctx := context.Background()

	canteen := createCanteen(t, r, true, true, 50)
	staff := staffPrincipal(2, canteen.ID)

	toggled, err := canteens.ToggleOpen(ctx, staff, canteen.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsOpen)

	toggled, err = canteens.ToggleOpen(ctx, staff, canteen.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsOpen)

	toggled, err = canteens.ToggleOnlineOrders(ctx, staff, canteen.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsOnlineOrdersEnabled)

	_, err = canteens.ToggleOpen(ctx, studentPrincipal(1), canteen.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteCanteen(t *testing.T) {
	r := newTestRepo(t)
	canteens := &CanteenService{Repo: r}
	ctx := context.Background()

	canteen := createCanteen(t, r, true, true, 50)

	err := canteens.DeleteCanteen(ctx, staffPrincipal(2, canteen.ID), canteen.ID)
	require.ErrorIs(t, err, ErrForbidden, "even the canteen's own staff cannot delete it")

	require.NoError(t, canteens.DeleteCanteen(ctx, adminPrincipal(1), canteen.ID))

	_, err = canteens.GetCanteen(ctx, canteen.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
