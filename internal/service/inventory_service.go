package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"repairshop/internal/apperror"
	"repairshop/internal/model"
	"repairshop/internal/repository"
	"repairshop/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs
type CreateInventoryItemRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity" binding:"min=0"`
	MinStockLevel int             `json:"min_stock_level" binding:"min=0"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
}

type UpdateInventoryItemRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Category      string          `json:"category"`
	MinStockLevel int             `json:"min_stock_level" binding:"min=0"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
}

type AdjustStockRequest struct {
	Delta  int  `json:"delta" binding:"required"`
	IsSale bool `json:"is_sale"`
}

type InventoryItemResponse struct {
	model.InventoryItem
	LowStock     bool   `json:"low_stock"`
	PriceDisplay string `json:"price_display"`
}

type InventoryService interface {
	GetItems(ctx context.Context, page, limit int, search string) ([]InventoryItemResponse, int64, error)
	GetItem(ctx context.Context, id string) (InventoryItemResponse, error)
	CreateItem(ctx context.Context, userID string, req CreateInventoryItemRequest) (InventoryItemResponse, error)
	UpdateItem(ctx context.Context, userID string, id string, req UpdateInventoryItemRequest) (InventoryItemResponse, error)
	DeleteItem(ctx context.Context, userID string, id string) error
	AdjustStock(ctx context.Context, userID string, id string, req AdjustStockRequest) (InventoryItemResponse, error)
	LowStock(ctx context.Context) ([]InventoryItemResponse, error)
	Movements(ctx context.Context, id string) ([]model.InventoryMovement, error)
}

type inventoryService struct {
	itemRepo     repository.InventoryRepository
	movementRepo repository.InventoryMovementRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	stock        *stockKeeper
}

func NewInventoryService(deps WorkflowDeps) InventoryService {
	return &inventoryService{
		itemRepo:     deps.Inventory,
		movementRepo: deps.Movements,
		auditRepo:    deps.Audit,
		txManager:    deps.TxManager,
		stock:        newStockKeeper(deps.Inventory, deps.Movements, deps.Transactions, deps.Now),
	}
}

func toInventoryResponse(item model.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		InventoryItem: item,
		LowStock:      item.IsLowStock(),
		PriceDisplay:  money.FormatCOP(item.Price),
	}
}

func validatePrices(price, cost decimal.Decimal) error {
	if price.IsNegative() {
		return apperror.Validation("price must not be negative")
	}
	if cost.IsNegative() {
		return apperror.Validation("cost price must not be negative")
	}
	return nil
}

func (s *inventoryService) GetItems(ctx context.Context, page, limit int, search string) ([]InventoryItemResponse, int64, error) {
	page, limit = normalizePage(page, limit)

	items, total, err := s.itemRepo.List(ctx, page, limit, strings.TrimSpace(search))
	if err != nil {
		return nil, 0, err
	}

	res := make([]InventoryItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toInventoryResponse(item))
	}
	return res, total, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id string) (InventoryItemResponse, error) {
	itemID, err := parseID("inventory item", id)
	if err != nil {
		return InventoryItemResponse{}, err
	}
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return InventoryItemResponse{}, lookupErr(err, "inventory item", id)
	}
	return toInventoryResponse(*item), nil
}

func (s *inventoryService) CreateItem(ctx context.Context, userID string, req CreateInventoryItemRequest) (InventoryItemResponse, error) {
	if err := validatePrices(req.Price, req.CostPrice); err != nil {
		return InventoryItemResponse{}, err
	}
	if req.Quantity < 0 {
		return InventoryItemResponse{}, apperror.Validation("quantity must not be negative")
	}

	item := model.InventoryItem{
		ID:            uuid.New(),
		SKU:           strings.TrimSpace(req.SKU),
		Name:          strings.TrimSpace(req.Name),
		Category:      strings.TrimSpace(req.Category),
		MinStockLevel: req.MinStockLevel,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.itemRepo.FindBySKU(txCtx, item.SKU); err == nil {
			return apperror.Validation("sku %q is already in use", item.SKU)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		if err := s.itemRepo.Create(txCtx, &item); err != nil {
			return lookupErr(err, "inventory item", item.SKU)
		}

		// opening stock goes through the stock card like any restock
		if req.Quantity > 0 {
			adjusted, err := s.stock.adjust(txCtx, item.ID, req.Quantity, false, nil)
			if err != nil {
				return err
			}
			item = *adjusted
		}

		return writeAudit(txCtx, s.auditRepo, userID, model.ActionCreateInventoryItem, item.ID.String(), item.Name, req)
	})
	if err != nil {
		return InventoryItemResponse{}, err
	}

	return toInventoryResponse(item), nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, userID string, id string, req UpdateInventoryItemRequest) (InventoryItemResponse, error) {
	itemID, err := parseID("inventory item", id)
	if err != nil {
		return InventoryItemResponse{}, err
	}
	if err := validatePrices(req.Price, req.CostPrice); err != nil {
		return InventoryItemResponse{}, err
	}

	var item *model.InventoryItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err = s.itemRepo.FindByIDForUpdate(txCtx, itemID)
		if err != nil {
			return lookupErr(err, "inventory item", id)
		}

		sku := strings.TrimSpace(req.SKU)
		if sku != item.SKU {
			if other, err := s.itemRepo.FindBySKU(txCtx, sku); err == nil && other.ID != item.ID {
				return apperror.Validation("sku %q is already in use", sku)
			}
		}

		// quantity only moves through AdjustStock
		item.SKU = sku
		item.Name = strings.TrimSpace(req.Name)
		item.Category = strings.TrimSpace(req.Category)
		item.MinStockLevel = req.MinStockLevel
		item.Price = req.Price
		item.CostPrice = req.CostPrice

		if err := s.itemRepo.Update(txCtx, item); err != nil {
			return lookupErr(err, "inventory item", id)
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionUpdateInventoryItem, item.ID.String(), item.Name, req)
	})
	if err != nil {
		return InventoryItemResponse{}, err
	}

	return toInventoryResponse(*item), nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, userID string, id string) error {
	itemID, err := parseID("inventory item", id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.itemRepo.FindByID(txCtx, itemID)
		if err != nil {
			return lookupErr(err, "inventory item", id)
		}
		if err := s.itemRepo.Delete(txCtx, itemID); err != nil {
			return lookupErr(err, "inventory item", id)
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionDeleteInventoryItem, item.ID.String(), item.Name, nil)
	})
}

func (s *inventoryService) AdjustStock(ctx context.Context, userID string, id string, req AdjustStockRequest) (InventoryItemResponse, error) {
	itemID, err := parseID("inventory item", id)
	if err != nil {
		return InventoryItemResponse{}, err
	}
	if req.Delta == 0 {
		return InventoryItemResponse{}, apperror.Validation("delta must not be zero")
	}

	var item *model.InventoryItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err = s.stock.adjust(txCtx, itemID, req.Delta, req.IsSale, nil)
		if err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionAdjustStock, item.ID.String(), item.Name, req)
	})
	if err != nil {
		return InventoryItemResponse{}, err
	}

	return toInventoryResponse(*item), nil
}

func (s *inventoryService) LowStock(ctx context.Context) ([]InventoryItemResponse, error) {
	items, err := s.itemRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]InventoryItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toInventoryResponse(item))
	}
	return res, nil
}

func (s *inventoryService) Movements(ctx context.Context, id string) ([]model.InventoryMovement, error) {
	itemID, err := parseID("inventory item", id)
	if err != nil {
		return nil, err
	}
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, lookupErr(err, "inventory item", id)
	}
	return s.movementRepo.ListByItem(ctx, itemID)
}
