package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop/internal/model"
	"repairshop/internal/service"
)

func TestLogin_SetsCookieThatAuthenticates(t *testing.T) {
	s := newTestServer(t)
	_, err := s.users.CreateUser(context.Background(), service.CreateUserRequest{
		Username: "admin", Email: "admin@example.com", Password: "secret1", Role: model.RoleAdmin,
	})
	require.NoError(t, err)

	rec := s.do(http.MethodPost, "/login", "", map[string]any{"email": "admin@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/login", "", map[string]any{"email": "admin@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "access_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	token := decode[service.TokenResponse](t, rec).Data.Token
	rec = s.do(http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@example.com", decode[service.UserResponse](t, rec).Data.Email)
}

func TestCreateUser_AdminOnly(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"username": "tech", "email": "tech@example.com", "password": "secret1", "role": "technician"}

	rec := s.do(http.MethodPost, "/users", s.token(model.RoleTechnician, nil), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/users", s.staff(), body)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body["role"] = "owner"
	body["email"] = "owner@example.com"
	rec = s.do(http.MethodPost, "/users", s.staff(), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaxonomyAndInventoryRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/taxonomies/brand", s.staff(), map[string]any{"value": "Lenovo"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/api/taxonomies/brand", s.staff(), map[string]any{"value": " lenovo "})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/taxonomies/brand", s.staff(), nil)
	assert.Len(t, decode[[]model.TaxonomyValue](t, rec).Data, 1)

	rec = s.do(http.MethodGet, "/api/taxonomies/colour", s.staff(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/inventory", s.staff(), map[string]any{
		"sku": "RAM-8", "name": "RAM 8GB", "quantity": 2, "min_stock_level": 2, "price": 120000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[service.InventoryItemResponse](t, rec).Data
	assert.True(t, item.LowStock)

	rec = s.do(http.MethodPost, "/api/inventory/"+item.ID.String()+"/adjust", s.token(model.RoleTechnician, nil), map[string]any{"delta": -3})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPost, "/api/inventory/"+item.ID.String()+"/adjust", s.token(model.RoleTechnician, nil), map[string]any{"delta": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, decode[service.InventoryItemResponse](t, rec).Data.Quantity)

	rec = s.do(http.MethodGet, "/api/inventory/low-stock", s.staff(), nil)
	assert.Empty(t, decode[[]service.InventoryItemResponse](t, rec).Data)
}

func TestAccountingSummary_RejectsBadDates(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/statistics/accounting?start_date=yesterday", s.staff(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/statistics/accounting", s.staff(), nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
