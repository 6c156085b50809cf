package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem represents a part or consumable held in stock
type InventoryItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU           string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Category      string          `gorm:"type:varchar(100);index" json:"category"`
	Quantity      int             `gorm:"type:int;default:0;not null" json:"quantity"`
	MinStockLevel int             `gorm:"type:int;default:0;not null" json:"min_stock_level"`
	Price         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	CostPrice     decimal.Decimal `gorm:"type:numeric(14,2);default:0;not null" json:"cost_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// IsLowStock reports whether the item is at or below its restock threshold.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinStockLevel
}

const (
	MovementSale       = "SALE"
	MovementAdjustment = "ADJUSTMENT"
)

// InventoryMovement is the stock card: one row per quantity change
type InventoryMovement struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InventoryItemID uuid.UUID  `gorm:"type:uuid;not null;index" json:"inventory_item_id"`
	WorkOrderID     *uuid.UUID `gorm:"type:uuid;index" json:"work_order_id"` // nil for manual adjustments
	MovementType    string     `gorm:"type:varchar(20);not null" json:"movement_type"`
	QuantityChanged int        `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int        `gorm:"type:int;not null" json:"stock_after"`
	CreatedAt       time.Time  `json:"created_at"`
}
