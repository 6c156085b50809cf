package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"repairshop/internal/model"
	"repairshop/internal/repository"
	"repairshop/internal/repository/memory"
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Send(ctx context.Context, n model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *memory.Store
	sink   *mockSink
	clock  *fakeClock
	deps   WorkflowDeps
	orders WorkOrderService
	ledger TransactionService
	stock  InventoryService
	people ClientService
	queue  ScheduledServiceService
}

const staffID = "6f1c0b9e-0d7a-4c55-9a43-1f0f3b8c2d11"

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()

	store := memory.NewStore()
	sink := &mockSink{}
	sink.On("Send", mock.Anything, mock.Anything).Return(nil).Maybe()
	clock := &fakeClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	deps := WorkflowDeps{
		Orders:            store.WorkOrders(),
		Sequences:         store.Sequences(),
		Clients:           store.Clients(),
		Scheduled:         store.ScheduledServices(),
		Inventory:         store.Inventory(),
		Movements:         store.Movements(),
		Transactions:      store.Transactions(),
		Audit:             store.Audit(),
		TxManager:         memory.NewTransactionManager(store),
		Notifier:          NewNotifier(store.Notifications(), logger, sink),
		Directory:         NewClientDirectory(store.Clients(), time.Minute),
		Logger:            logger,
		StrictTransitions: strict,
		Now:               clock.Now,
	}

	return &fixture{
		t:      t,
		ctx:    context.Background(),
		store:  store,
		sink:   sink,
		clock:  clock,
		deps:   deps,
		orders: NewWorkOrderService(deps),
		ledger: NewTransactionService(deps),
		stock:  NewInventoryService(deps),
		people: NewClientService(deps),
		queue:  NewScheduledServiceService(deps),
	}
}

func (f *fixture) client(fiscalID, name string) model.Client {
	f.t.Helper()
	c, err := f.people.CreateClient(f.ctx, staffID, CreateClientRequest{FiscalID: fiscalID, Name: name, Phone: "3001234567"})
	require.NoError(f.t, err)
	return c
}

func (f *fixture) item(sku string, qty int, cost string) InventoryItemResponse {
	f.t.Helper()
	item, err := f.stock.CreateItem(f.ctx, staffID, CreateInventoryItemRequest{
		SKU:       sku,
		Name:      "Part " + sku,
		Quantity:  qty,
		Price:     decimal.RequireFromString("50000"),
		CostPrice: decimal.RequireFromString(cost),
	})
	require.NoError(f.t, err)
	return item
}

func (f *fixture) order(clientID string, items ...BudgetItemRequest) WorkOrderResponse {
	f.t.Helper()
	order, err := f.orders.CreateWorkOrder(f.ctx, staffID, CreateWorkOrderRequest{
		ClientID:        clientID,
		EquipmentType:   "Laptop",
		EquipmentSerial: "SN-" + clientID[:8],
		ReportedFault:   "Does not boot",
		BudgetItems:     items,
	})
	require.NoError(f.t, err)
	return order
}

func (f *fixture) move(id string, area model.Area, status model.Status) (WorkOrderResponse, error) {
	a, s := string(area), string(status)
	return f.orders.UpdateWorkOrder(f.ctx, staffID, id, UpdateWorkOrderRequest{Area: &a, Status: &s})
}

func (f *fixture) transactions(category string) []model.Transaction {
	f.t.Helper()
	all, _, err := f.store.Transactions().List(f.ctx, repository.TransactionFilter{}, 1, 1000)
	require.NoError(f.t, err)
	var out []model.Transaction
	for _, tx := range all {
		if category == "" || tx.Category == category {
			out = append(out, tx)
		}
	}
	return out
}

func (f *fixture) adminNotes() []model.Notification {
	f.t.Helper()
	notes, _, err := NewNotifier(f.store.Notifications(), nil).List(f.ctx, model.AudienceAdmin, nil, false, 1, 1000)
	require.NoError(f.t, err)
	return notes
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }
