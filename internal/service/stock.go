package service

import (
	"context"
	"fmt"
	"time"

	"repairshop/internal/apperror"
	"repairshop/internal/model"
	"repairshop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// stockKeeper is the single path that changes inventory quantities. Callers
// must run it inside a unit of work.
type stockKeeper struct {
	inventory    repository.InventoryRepository
	movements    repository.InventoryMovementRepository
	transactions repository.TransactionRepository
	now          func() time.Time
}

func newStockKeeper(inventory repository.InventoryRepository, movements repository.InventoryMovementRepository, transactions repository.TransactionRepository, now func() time.Time) *stockKeeper {
	if now == nil {
		now = time.Now
	}
	return &stockKeeper{inventory: inventory, movements: movements, transactions: transactions, now: now}
}

// adjust applies delta to the item. A sale adjustment only moves stock; a
// manual restock with a known cost also books the purchase as an expense.
func (k *stockKeeper) adjust(txCtx context.Context, itemID uuid.UUID, delta int, isSale bool, workOrderID *uuid.UUID) (*model.InventoryItem, error) {
	item, err := k.inventory.FindByIDForUpdate(txCtx, itemID)
	if err != nil {
		return nil, lookupErr(err, "inventory item", itemID.String())
	}

	newQty := item.Quantity + delta
	if newQty < 0 {
		return nil, apperror.Stock(item.Name, item.Quantity, -delta)
	}

	if err := k.inventory.UpdateQuantity(txCtx, item.ID, newQty); err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	item.Quantity = newQty

	movementType := model.MovementAdjustment
	if isSale {
		movementType = model.MovementSale
	}
	movement := &model.InventoryMovement{
		ID:              uuid.New(),
		InventoryItemID: item.ID,
		WorkOrderID:     workOrderID,
		MovementType:    movementType,
		QuantityChanged: delta,
		StockAfter:      newQty,
		CreatedAt:       k.now(),
	}
	if err := k.movements.Create(txCtx, movement); err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}

	if !isSale && delta > 0 && item.CostPrice.IsPositive() {
		purchase := &model.Transaction{
			ID:              uuid.New(),
			Type:            model.TransactionEgreso,
			Category:        model.CategoryPurchase,
			Amount:          item.CostPrice.Mul(decimal.NewFromInt(int64(delta))),
			Description:     fmt.Sprintf("Stock purchase: %s x%d", item.Name, delta),
			Date:            k.now(),
			InventoryItemID: &item.ID,
		}
		if err := k.transactions.Create(txCtx, purchase); err != nil {
			return nil, fmt.Errorf("failed to record purchase: %w", err)
		}
	}

	return item, nil
}
