package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"repairshop/internal/apperror"
	"repairshop/internal/lifecycle"
	"repairshop/internal/model"
	"repairshop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	Type        string          `json:"type" binding:"required,oneof=INGRESO EGRESO"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"max=500"`
	Date        *time.Time      `json:"date"`
	WorkOrderID *string         `json:"work_order_id"`
}

type TransactionListQuery struct {
	Type        string
	WorkOrderID *uuid.UUID
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

type TransactionService interface {
	CreateTransaction(ctx context.Context, userID string, req CreateTransactionRequest) (model.Transaction, error)
	ListTransactions(ctx context.Context, q TransactionListQuery) ([]model.Transaction, int64, error)
}

type transactionService struct {
	orders       repository.WorkOrderRepository
	transactions repository.TransactionRepository
	audit        repository.AuditRepository
	txManager    repository.TransactionManager
	notifier     *Notifier
	engine       *workOrderEngine
}

func NewTransactionService(deps WorkflowDeps) TransactionService {
	return &transactionService{
		orders:       deps.Orders,
		transactions: deps.Transactions,
		audit:        deps.Audit,
		txManager:    deps.TxManager,
		notifier:     deps.Notifier,
		engine:       newWorkOrderEngine(deps),
	}
}

func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req CreateTransactionRequest) (model.Transaction, error) {
	txType := model.TransactionType(strings.ToUpper(req.Type))
	if txType != model.TransactionIngreso && txType != model.TransactionEgreso {
		return model.Transaction{}, apperror.Validation("unknown transaction type %q", req.Type)
	}
	if !req.Amount.IsPositive() {
		return model.Transaction{}, apperror.Validation("amount must be greater than zero")
	}
	orderID, err := parseOptionalID("work order", req.WorkOrderID)
	if err != nil {
		return model.Transaction{}, err
	}

	date := s.engine.now()
	if req.Date != nil {
		date = *req.Date
	}
	category := strings.ToUpper(strings.TrimSpace(req.Category))
	if category == "" {
		category = model.CategoryManual
		if txType == model.TransactionIngreso && orderID != nil {
			category = model.CategoryPayment
		}
	}

	entry := model.Transaction{
		ID:          uuid.New(),
		Type:        txType,
		Category:    category,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Date:        date,
		WorkOrderID: orderID,
	}

	var notes []model.Notification
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var order *model.WorkOrder
		if orderID != nil {
			// lock first so concurrent payments on one order serialize
			order, err = s.orders.FindByIDForUpdate(txCtx, *orderID)
			if err != nil {
				return lookupErr(err, "work order", orderID.String())
			}
		}

		if err := s.transactions.Create(txCtx, &entry); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		if order != nil && txType == model.TransactionIngreso {
			_, notes, err = s.engine.apply(txCtx, *order, lifecycle.ReconcilePayment(*order, entry.Amount))
			if err != nil {
				return err
			}
		}

		return writeAudit(txCtx, s.audit, userID, model.ActionCreateTransaction, entry.ID.String(), string(entry.Type), req)
	})
	if err != nil {
		return model.Transaction{}, err
	}

	s.notifier.Dispatch(ctx, notes)
	return entry, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, q TransactionListQuery) ([]model.Transaction, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	return s.transactions.List(ctx, repository.TransactionFilter{
		Type:        model.TransactionType(strings.ToUpper(q.Type)),
		WorkOrderID: q.WorkOrderID,
		From:        q.From,
		To:          q.To,
	}, page, limit)
}
