package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"repairshop/internal/apperror"
	"repairshop/internal/lifecycle"
	"repairshop/internal/model"
	"repairshop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// workOrderEngine carries out a lifecycle plan. Every call runs inside the
// caller's unit of work with the order row already locked.
type workOrderEngine struct {
	orders       repository.WorkOrderRepository
	inventory    repository.InventoryRepository
	transactions repository.TransactionRepository
	stock        *stockKeeper
	notifier     *Notifier
	strict       bool
	logger       *slog.Logger
	now          func() time.Time
}

func newWorkOrderEngine(deps WorkflowDeps) *workOrderEngine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &workOrderEngine{
		orders:       deps.Orders,
		inventory:    deps.Inventory,
		transactions: deps.Transactions,
		stock:        newStockKeeper(deps.Inventory, deps.Movements, deps.Transactions, now),
		notifier:     deps.Notifier,
		strict:       deps.StrictTransitions,
		logger:       logger,
		now:          now,
	}
}

func (e *workOrderEngine) apply(txCtx context.Context, prior model.WorkOrder, patch lifecycle.Patch) (model.WorkOrder, []model.Notification, error) {
	plan := lifecycle.PlanUpdate(prior, patch, e.now())

	if plan.Violation != "" {
		if e.strict {
			return model.WorkOrder{}, nil, apperror.Validation("%s", plan.Violation)
		}
		e.logger.Warn("work order left in an illegal area/status pair",
			slog.String("work_order", prior.DisplayID),
			slog.String("detail", plan.Violation))
	}

	orderID := prior.ID
	for _, d := range plan.StockDeductions {
		_, err := e.stock.adjust(txCtx, d.InventoryItemID, -d.Quantity, true, &orderID)
		if err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				e.logger.Warn("skipping stock deduction for missing inventory item",
					slog.String("work_order", prior.DisplayID),
					slog.String("item", d.ItemName))
				continue
			}
			return model.WorkOrder{}, nil, err
		}
	}

	for _, c := range plan.CostOfGoods {
		if err := e.recordCostOfGoods(txCtx, plan.Next, c); err != nil {
			return model.WorkOrder{}, nil, err
		}
	}

	next := plan.Next
	if err := e.orders.Update(txCtx, &next); err != nil {
		return model.WorkOrder{}, nil, fmt.Errorf("failed to update work order: %w", err)
	}

	notes, err := e.notifier.Record(txCtx, plan.Notices)
	if err != nil {
		return model.WorkOrder{}, nil, err
	}
	return next, notes, nil
}

func (e *workOrderEngine) recordCostOfGoods(txCtx context.Context, order model.WorkOrder, c lifecycle.CostOfGoods) error {
	item, err := e.inventory.FindByID(txCtx, c.InventoryItemID)
	if errors.Is(err, repository.ErrNotFound) {
		e.logger.Warn("no cost of goods for missing inventory item",
			slog.String("work_order", order.DisplayID),
			slog.String("item", c.ItemName))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load inventory item: %w", err)
	}
	if !item.CostPrice.IsPositive() {
		return nil
	}

	orderID := order.ID
	itemID := item.ID
	entry := &model.Transaction{
		ID:              uuid.New(),
		Type:            model.TransactionEgreso,
		Category:        model.CategoryCostOfGoods,
		Amount:          item.CostPrice.Mul(decimal.NewFromInt(int64(c.Quantity))),
		Description:     fmt.Sprintf("Cost of goods sold for %s: %s x%d", order.DisplayID, c.ItemName, c.Quantity),
		Date:            c.Date,
		WorkOrderID:     &orderID,
		InventoryItemID: &itemID,
	}
	if err := e.transactions.Create(txCtx, entry); err != nil {
		return fmt.Errorf("failed to record cost of goods: %w", err)
	}
	return nil
}
