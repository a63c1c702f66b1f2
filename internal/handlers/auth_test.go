package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanadev/kms/internal/models"
	"github.com/khanadev/kms/internal/service"
)

func newAuthHandler(env *testEnv) *AuthHandler {
	return &AuthHandler{
		Svc: &service.AuthService{
			Repo:      env.repo,
			JWTSecret: []byte("test-secret"),
			TokenTTL:  time.Hour,
		},
		Producer: env.producer,
	}
}

func TestRegisterHandler(t *testing.T) {
	env := newTestEnv(t)
	h := newAuthHandler(env)

	body := `{"name":"Asha","email":"asha@campus.edu","password":"secret1","role":"STUDENT"}`
	c, rec := env.newContext(http.MethodPost, "/api/auth/register", body, nil, nil)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	assert.NotEmpty(t, resp.Token)
	assert.NotContains(t, rec.Body.String(), "password_hash", "hashes never leave the server")

	// Same email again conflicts.
	c, _ = env.newContext(http.MethodPost, "/api/auth/register", body, nil, nil)
	assert.Equal(t, http.StatusConflict, httpStatus(t, h.Register(c)))

	// Non-student self-registration is rejected.
	c, _ = env.newContext(http.MethodPost, "/api/auth/register", `{"name":"Eve","email":"eve@campus.edu","password":"secret1","role":"ADMIN"}`, nil, nil)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.Register(c)))
}

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(t)
	h := newAuthHandler(env)

	body := `{"name":"Asha","email":"asha@campus.edu","password":"secret1","role":"STUDENT"}`
	c, _ := env.newContext(http.MethodPost, "/api/auth/register", body, nil, nil)
	require.NoError(t, h.Register(c))

	c, rec := env.newContext(http.MethodPost, "/api/auth/login", `{"email":"asha@campus.edu","password":"secret1"}`, nil, nil)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = env.newContext(http.MethodPost, "/api/auth/login", `{"email":"asha@campus.edu","password":"wrong"}`, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, h.Login(c)))
}

func TestMeHandler(t *testing.T) {
	env := newTestEnv(t)
	h := newAuthHandler(env)

	body := `{"name":"Asha","email":"asha@campus.edu","password":"secret1","role":"STUDENT"}`
	c, rec := env.newContext(http.MethodPost, "/api/auth/register", body, nil, nil)
	require.NoError(t, h.Register(c))

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	c, rec = env.newContext(http.MethodGet, "/api/auth/me", "", student(resp.User.ID), nil)
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = env.newContext(http.MethodGet, "/api/auth/me", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, h.Me(c)))
}
