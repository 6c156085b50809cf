package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop/internal/apperror"
	"repairshop/internal/model"
	"repairshop/internal/service"
)

func TestAuth_RejectsMissingTokenAndWrongRole(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/work-orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/work-orders", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c := s.createClient("900123", "Ana Ruiz")
	rec = s.do(http.MethodGet, "/api/work-orders", s.token(model.RoleClient, &c.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// technicians cannot delete
	order := s.createOrder(c.ID)
	rec = s.do(http.MethodDelete, "/api/work-orders/"+order.ID.String(), s.token(model.RoleTechnician, nil), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateWorkOrder_HTTP(t *testing.T) {
	s := newTestServer(t)
	c := s.createClient("900123", "Ana Ruiz")

	order := s.createOrder(c.ID, map[string]any{
		"name": "Cleaning", "quantity": 1, "unit_price": 150000, "is_service": true,
	})
	assert.Equal(t, "OT-1001", order.DisplayID)
	assert.Equal(t, model.AreaIntake, order.Area)
	assert.Equal(t, "Ana Ruiz", order.ClientName)
	assert.Equal(t, "$150.000", order.GrandTotalDisplay)

	rec := s.do(http.MethodGet, "/api/work-orders/"+order.ID.String(), s.staff(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, order.ID, decode[service.WorkOrderResponse](t, rec).Data.ID)

	rec = s.do(http.MethodGet, "/api/work-orders?area=INTAKE", s.staff(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[page[service.WorkOrderResponse]](t, rec).Data
	assert.Equal(t, int64(1), listed.Total)
}

func TestCreateWorkOrder_ValidationErrors(t *testing.T) {
	s := newTestServer(t)
	c := s.createClient("900123", "Ana Ruiz")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing serial", map[string]any{"client_id": c.ID.String()}},
		{"unknown area", map[string]any{"client_id": c.ID.String(), "equipment_serial": "SN1", "area": "BACKLOG"}},
		{"unknown status", map[string]any{"client_id": c.ID.String(), "equipment_serial": "SN1", "status": "LOST"}},
		{"budget item without name", map[string]any{
			"client_id": c.ID.String(), "equipment_serial": "SN1",
			"budget_items": []map[string]any{{"quantity": 1, "unit_price": 10}},
		}},
		{"malformed client id", map[string]any{"client_id": "abc", "equipment_serial": "SN1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/work-orders", s.staff(), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, string(apperror.KindValidation), decode[any](t, rec).Code)
		})
	}

	rec := s.do(http.MethodGet, "/api/work-orders", s.staff(), nil)
	assert.Equal(t, int64(0), decode[page[service.WorkOrderResponse]](t, rec).Data.Total)
}

func TestUpdateWorkOrder_StockShortageIs422(t *testing.T) {
	s := newTestServer(t)
	c := s.createClient("900123", "Ana Ruiz")

	rec := s.do(http.MethodPost, "/api/inventory", s.staff(), map[string]any{
		"sku": "BAT-01", "name": "Battery", "quantity": 1, "price": 80000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[service.InventoryItemResponse](t, rec).Data

	order := s.createOrder(c.ID, map[string]any{
		"name": "Battery", "quantity": 2, "unit_price": 80000, "inventory_item_id": item.ID.String(),
	})

	rec = s.do(http.MethodPut, "/api/work-orders/"+order.ID.String(), s.staff(), map[string]any{
		"area": "READY_FOR_PICKUP", "status": "REPAIRED",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[any](t, rec)
	assert.Equal(t, string(apperror.KindStockConstraint), body.Code)
	assert.Contains(t, body.Error, "current 1, requested 2")
}

func TestUpdateWorkOrder_NotFound(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPut, "/api/work-orders/0b5b6f0e-3a43-4bd0-9d0e-2f0b8f0f9a01", s.staff(), map[string]any{
		"status": "IN_PROGRESS",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayment_ReconcilesThroughTransactions(t *testing.T) {
	s := newTestServer(t)
	c := s.createClient("900123", "Ana Ruiz")
	order := s.createOrder(c.ID, map[string]any{
		"name": "Cleaning", "quantity": 1, "unit_price": 100000, "is_service": true,
	})

	for _, amount := range []string{"40000", "60000"} {
		rec := s.do(http.MethodPost, "/api/transactions", s.staff(), map[string]any{
			"type": "INGRESO", "amount": amount, "work_order_id": order.ID.String(),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.do(http.MethodGet, "/api/work-orders/"+order.ID.String(), s.staff(), nil)
	got := decode[service.WorkOrderResponse](t, rec).Data
	assert.Equal(t, model.PaymentPaid, got.PaymentStatus)
	assert.True(t, got.BalanceDue.IsZero())

	rec = s.do(http.MethodPost, "/api/transactions", s.staff(), map[string]any{"type": "REFUND", "amount": "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/transactions?work_order_id="+order.ID.String(), s.staff(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), decode[page[model.Transaction]](t, rec).Data.Total)
}

func TestDuplicateClientIsRejected(t *testing.T) {
	s := newTestServer(t)
	s.createClient("900123", "Ana Ruiz")

	rec := s.do(http.MethodPost, "/api/clients", s.staff(), map[string]any{"fiscal_id": "900123", "name": "Someone Else"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/clients", s.staff(), nil)
	assert.Equal(t, int64(1), decode[page[model.Client]](t, rec).Data.Total)
}
