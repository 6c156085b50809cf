package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop/internal/apperror"
	"repairshop/internal/model"
)

func TestAdjustStock_NeverGoesNegative(t *testing.T) {
	f := newFixture(t, false)
	part := f.item("RAM-8", 2, "0")

	_, err := f.stock.AdjustStock(f.ctx, staffID, part.ID.String(), AdjustStockRequest{Delta: -5, IsSale: true})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindStockConstraint))
	assert.Contains(t, err.Error(), "current 2, requested 5")

	got, err := f.stock.GetItem(f.ctx, part.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	movements, err := f.stock.Movements(f.ctx, part.ID.String())
	require.NoError(t, err)
	assert.Len(t, movements, 1, "only the opening stock movement")
}

func TestAdjustStock_SaleAndRestock(t *testing.T) {
	f := newFixture(t, false)
	part := f.item("RAM-8", 2, "45000")
	require.Len(t, f.transactions(model.CategoryPurchase), 1, "opening stock is a purchase")

	sold, err := f.stock.AdjustStock(f.ctx, staffID, part.ID.String(), AdjustStockRequest{Delta: -2, IsSale: true})
	require.NoError(t, err)
	assert.Equal(t, 0, sold.Quantity)
	assert.True(t, sold.LowStock)
	assert.Len(t, f.transactions(model.CategoryPurchase), 1)

	restocked, err := f.stock.AdjustStock(f.ctx, staffID, part.ID.String(), AdjustStockRequest{Delta: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, restocked.Quantity)

	purchases := f.transactions(model.CategoryPurchase)
	require.Len(t, purchases, 2)
	var amounts []string
	for _, p := range purchases {
		assert.Equal(t, model.TransactionEgreso, p.Type)
		amounts = append(amounts, p.Amount.String())
	}
	assert.ElementsMatch(t, []string{"90000", "135000"}, amounts)
}

func TestAdjustStock_RejectsZeroAndUnknown(t *testing.T) {
	f := newFixture(t, false)
	part := f.item("RAM-8", 2, "0")

	_, err := f.stock.AdjustStock(f.ctx, staffID, part.ID.String(), AdjustStockRequest{Delta: 0})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.stock.AdjustStock(f.ctx, staffID, "0b5b6f0e-3a43-4bd0-9d0e-2f0b8f0f9a01", AdjustStockRequest{Delta: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCreateItem_DuplicateSKU(t *testing.T) {
	f := newFixture(t, false)
	f.item("RAM-8", 2, "0")

	_, err := f.stock.CreateItem(f.ctx, staffID, CreateInventoryItemRequest{SKU: "RAM-8", Name: "Other", Price: dec("1")})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, total, err := f.stock.GetItems(f.ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestUpdateItem_KeepsQuantity(t *testing.T) {
	f := newFixture(t, false)
	part := f.item("RAM-8", 4, "0")

	updated, err := f.stock.UpdateItem(f.ctx, staffID, part.ID.String(), UpdateInventoryItemRequest{
		SKU:           "RAM-8GB",
		Name:          "RAM 8GB DDR4",
		MinStockLevel: 5,
		Price:         dec("120000"),
		CostPrice:     dec("80000"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, "RAM-8GB", updated.SKU)
	assert.True(t, updated.LowStock)
	assert.Equal(t, "$120.000", updated.PriceDisplay)
}

func TestLowStock(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.stock.CreateItem(f.ctx, staffID, CreateInventoryItemRequest{SKU: "A", Name: "A", Quantity: 1, MinStockLevel: 3, Price: dec("1")})
	require.NoError(t, err)
	_, err = f.stock.CreateItem(f.ctx, staffID, CreateInventoryItemRequest{SKU: "B", Name: "B", Quantity: 10, MinStockLevel: 3, Price: dec("1")})
	require.NoError(t, err)

	low, err := f.stock.LowStock(f.ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "A", low[0].SKU)
}
