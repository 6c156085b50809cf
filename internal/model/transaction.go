package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIngreso TransactionType = "INGRESO"
	TransactionEgreso  TransactionType = "EGRESO"
)

const (
	CategoryPayment     = "PAYMENT"
	CategoryCostOfGoods = "COST_OF_GOODS"
	CategoryPurchase    = "PURCHASE"
	CategoryManual      = "MANUAL"
)

// Transaction is an immutable ledger entry. Rows are only ever inserted.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type            TransactionType `gorm:"type:varchar(10);not null;index" json:"type"`
	Category        string          `gorm:"type:varchar(30);not null;default:'MANUAL'" json:"category"`
	Amount          decimal.Decimal `gorm:"type:numeric(16,2);not null" json:"amount"`
	Description     string          `gorm:"type:text" json:"description"`
	Date            time.Time       `gorm:"not null;index" json:"date"`
	WorkOrderID     *uuid.UUID      `gorm:"type:uuid;index" json:"work_order_id,omitempty"`
	InventoryItemID *uuid.UUID      `gorm:"type:uuid;index" json:"inventory_item_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
