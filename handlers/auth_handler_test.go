package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinity-hospitality/event-system/middleware"
	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/services"
)

type stubAuthService struct {
	user *models.User
}

func (s stubAuthService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	return &models.User{ID: 1, Username: in.Username, Email: in.Email, Role: models.RoleUser}, nil
}

func (s stubAuthService) Login(ctx context.Context, in services.LoginInput) (*models.User, error) {
	if in.Password != "correct-horse" {
		return nil, services.ErrInvalidCredentials
	}
	return s.user, nil
}

func (s stubAuthService) GetUser(ctx context.Context, id int) (*models.User, error) {
	if id != s.user.ID {
		return nil, services.ErrUserNotFound
	}
	return s.user, nil
}

func TestLoginIssuesUsableToken(t *testing.T) {
	const secret = "handler-secret"
	h := NewAuthHandler(stubAuthService{user: &models.User{ID: 42, Username: "mira", Role: models.RoleAdmin}}, secret)

	router := chi.NewRouter()
	router.Post("/auth/login", h.Login)
	router.With(middleware.Authenticate(secret)).Get("/users/me", h.Me)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"mira@example.com","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"mira@example.com","password":"correct-horse"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username": "mira"`)
}

func TestRegisterRequiresFields(t *testing.T) {
	h := NewAuthHandler(stubAuthService{}, "secret")

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"email":"a@b.co"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"a","email":"a@b.co","password":"longenough"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
}
