package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"repairshop/internal/middleware"
	"repairshop/internal/model"
	"repairshop/internal/repository/memory"
	"repairshop/internal/service"
)

var testSecret = []byte("handler-test-secret")

type envelope[T any] struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Data       T      `json:"data"`
	Error      string `json:"error"`
}

type page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *memory.Store
	users  service.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := service.WorkflowDeps{
		Orders:       store.WorkOrders(),
		Sequences:    store.Sequences(),
		Clients:      store.Clients(),
		Scheduled:    store.ScheduledServices(),
		Inventory:    store.Inventory(),
		Movements:    store.Movements(),
		Transactions: store.Transactions(),
		Audit:        store.Audit(),
		TxManager:    memory.NewTransactionManager(store),
		Notifier:     service.NewNotifier(store.Notifications(), logger),
		Directory:    service.NewClientDirectory(store.Clients(), time.Minute),
		Logger:       logger,
		Now:          time.Now,
	}
	users := service.NewUserService(store.Users(), store.Clients(), testSecret, time.Hour)

	router, err := NewRouter(Services{
		WorkOrders:    service.NewWorkOrderService(deps),
		Transactions:  service.NewTransactionService(deps),
		Inventory:     service.NewInventoryService(deps),
		Scheduled:     service.NewScheduledServiceService(deps),
		Clients:       service.NewClientService(deps),
		Taxonomy:      service.NewTaxonomyService(store.Taxonomy()),
		Notifications: deps.Notifier,
		Statistics:    service.NewStatisticsService(store.Statistics()),
		Audit:         service.NewAuditService(store.Audit()),
		Users:         users,
	}, RouterConfig{
		Secret: testSecret,
		Cookie: middleware.CookieOptions{MaxAge: time.Hour},
	})
	require.NoError(t, err)

	return &testServer{t: t, router: router, store: store, users: users}
}

func (s *testServer) token(role string, clientID *uuid.UUID) string {
	s.t.Helper()
	claims := jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	if clientID != nil {
		claims["client_id"] = clientID.String()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(s.t, err)
	return signed
}

func (s *testServer) staff() string { return s.token(model.RoleAdmin, nil) }

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) createClient(fiscalID, name string) model.Client {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/clients", s.staff(), map[string]any{
		"fiscal_id": fiscalID, "name": name, "phone": "3001234567",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Client](s.t, rec).Data
}

func (s *testServer) createOrder(clientID uuid.UUID, items ...map[string]any) service.WorkOrderResponse {
	s.t.Helper()
	if items == nil {
		items = []map[string]any{}
	}
	rec := s.do(http.MethodPost, "/api/work-orders", s.staff(), map[string]any{
		"client_id":          clientID.String(),
		"equipment_type":     "Laptop",
		"equipment_serial":   "SN-" + clientID.String()[:8],
		"equipment_password": "1234",
		"budget_items":       items,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[service.WorkOrderResponse](s.t, rec).Data
}
