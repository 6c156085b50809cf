package repository

import (
	"context"

	"repairshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *model.InventoryMovement) error
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.InventoryMovement, error)
}

type inventoryMovementRepository struct {
	db *gorm.DB
}

func NewInventoryMovementRepository(db *gorm.DB) InventoryMovementRepository {
	return &inventoryMovementRepository{db: db}
}

func (r *inventoryMovementRepository) Create(ctx context.Context, movement *model.InventoryMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *inventoryMovementRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.InventoryMovement, error) {
	var movements []model.InventoryMovement
	if err := GetDB(ctx, r.db).Where("inventory_item_id = ?", itemID).
		Order("created_at desc").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
