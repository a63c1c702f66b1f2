package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/khanadev/kms/internal/auth"
	"github.com/khanadev/kms/internal/config"
	"github.com/khanadev/kms/internal/middleware"
	"github.com/khanadev/kms/internal/models"
	"github.com/khanadev/kms/internal/mykafka"
	"github.com/khanadev/kms/internal/repo"
	"github.com/khanadev/kms/internal/service"
)

type testEnv struct {
	repo     *repo.GormRepo
	orders   *service.OrderService
	payments *service.PaymentService
	earnings *service.EarningsService
	producer *mykafka.Producer
	echo     *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	r := &repo.GormRepo{DB: db}
	orders := &service.OrderService{Repo: r}
	return &testEnv{
		repo:     r,
		orders:   orders,
		payments: &service.PaymentService{Repo: r, Orders: orders},
		earnings: &service.EarningsService{Repo: r},
		producer: &mykafka.Producer{},
		echo:     echo.New(),
	}
}

// newContext builds an echo context the way the router middleware would leave
// it: JSON request bound, path params set, principal on the context.
func (env *testEnv) newContext(method, target, body string, p *auth.Principal, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := env.echo.NewContext(req, rec)
	if p != nil {
		c.Set(middleware.PrincipalKey, *p)
	}
	if len(params) > 0 {
		names := make([]string, 0, len(params))
		values := make([]string, 0, len(params))
		for k, v := range params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func (env *testEnv) seedCanteen(t *testing.T) *models.Canteen {
	t.Helper()
	canteen := &models.Canteen{
		Name:                  "Main Canteen",
		Location:              "Block A",
		IsOpen:                true,
		IsOnlineOrdersEnabled: true,
		MaxBulkSize:           50,
	}
	require.NoError(t, env.repo.CreateCanteen(context.Background(), canteen))
	return canteen
}

func (env *testEnv) seedMenuItem(t *testing.T, canteenID uint, name string, price float64) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		CanteenID:   canteenID,
		Name:        name,
		Price:       price,
		IsAvailable: true,
		IsVeg:       true,
	}
	require.NoError(t, env.repo.CreateMenuItem(context.Background(), item))
	return item
}

func student(id uint) *auth.Principal {
	return &auth.Principal{ID: id, Role: models.RoleStudent}
}

func staff(id, canteenID uint) *auth.Principal {
	return &auth.Principal{ID: id, Role: models.RoleCanteen, CanteenID: &canteenID}
}

// httpStatus unwraps the echo error a handler returned.
func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}
