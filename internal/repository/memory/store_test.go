package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop/internal/model"
	"repairshop/internal/repository"
)

func TestRunInTx_RollsBackOnError(t *testing.T) {
	store := NewStore()
	tm := NewTransactionManager(store)
	ctx := context.Background()

	item := &model.InventoryItem{SKU: "BAT-01", Name: "Battery", Quantity: 5}
	require.NoError(t, store.Inventory().Create(ctx, item))

	boom := errors.New("boom")
	err := tm.RunInTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, store.Inventory().UpdateQuantity(txCtx, item.ID, 1))
		require.NoError(t, store.Movements().Create(txCtx, &model.InventoryMovement{InventoryItemID: item.ID, QuantityChanged: -4, StockAfter: 1}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Inventory().FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	movements, err := store.Movements().ListByItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	store := NewStore()
	tm := NewTransactionManager(store)

	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		return tm.RunInTx(txCtx, func(inner context.Context) error {
			_, err := store.Sequences().Next(inner, "x", 10)
			return err
		})
	})
	require.NoError(t, err)

	next, err := store.Sequences().Next(context.Background(), "x", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(11), next)
}

func TestSequence_ConcurrentCallersGetDistinctValues(t *testing.T) {
	store := NewStore()
	tm := NewTransactionManager(store)

	const workers = 50
	var wg sync.WaitGroup
	values := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tm.RunInTx(context.Background(), func(txCtx context.Context) error {
				v, err := store.Sequences().Next(txCtx, repository.WorkOrderSequence, model.FirstDisplayNumber)
				values <- v
				return err
			})
		}()
	}
	wg.Wait()
	close(values)

	seen := make(map[int64]bool)
	for v := range values {
		assert.False(t, seen[v], "duplicate value %d", v)
		assert.GreaterOrEqual(t, v, int64(model.FirstDisplayNumber))
		seen[v] = true
	}
	assert.Len(t, seen, workers)
}

func TestClients_UniqueFiscalIDAndEmail(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	email := "ana@example.com"

	require.NoError(t, store.Clients().Create(ctx, &model.Client{FiscalID: "900123", Name: "Ana", Email: &email}))

	err := store.Clients().Create(ctx, &model.Client{FiscalID: "900123", Name: "Other"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	upper := "ANA@example.com"
	err = store.Clients().Create(ctx, &model.Client{FiscalID: "111", Name: "Other", Email: &upper})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, total, err := store.Clients().List(ctx, 1, 20, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestWorkOrders_ListFiltersAndPaginates(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	clientID := uuid.New()

	for i, status := range []model.Status{model.StatusPendingDiagnosis, model.StatusInProgress, model.StatusInProgress} {
		order := &model.WorkOrder{
			DisplayID:       "OT-" + string(rune('1'+i)),
			Area:            model.AreaIntake,
			Status:          status,
			ClientID:        clientID,
			EquipmentSerial: "SN",
		}
		require.NoError(t, store.WorkOrders().Create(ctx, order))
	}

	orders, total, err := store.WorkOrders().List(ctx, repository.WorkOrderFilter{Status: model.StatusInProgress}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 1)

	_, err = store.WorkOrders().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWorkOrders_ReturnedCopiesAreDetached(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	order := &model.WorkOrder{DisplayID: "OT-1001", EquipmentSerial: "SN", BudgetItems: []model.BudgetItem{{Name: "a", Quantity: 1}}}
	require.NoError(t, store.WorkOrders().Create(ctx, order))

	got, err := store.WorkOrders().FindByID(ctx, order.ID)
	require.NoError(t, err)
	got.BudgetItems[0].Quantity = 99

	again, err := store.WorkOrders().FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.BudgetItems[0].Quantity)
}
