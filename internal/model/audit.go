package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateWorkOrder        = "CREATE_WORK_ORDER"
	ActionUpdateWorkOrder        = "UPDATE_WORK_ORDER"
	ActionDeleteWorkOrder        = "DELETE_WORK_ORDER"
	ActionCreateTransaction      = "CREATE_TRANSACTION"
	ActionAdjustStock            = "ADJUST_STOCK"
	ActionCreateInventoryItem    = "CREATE_INVENTORY_ITEM"
	ActionUpdateInventoryItem    = "UPDATE_INVENTORY_ITEM"
	ActionDeleteInventoryItem    = "DELETE_INVENTORY_ITEM"
	ActionCreateClient           = "CREATE_CLIENT"
	ActionUpdateClient           = "UPDATE_CLIENT"
	ActionCreateScheduledService = "CREATE_SCHEDULED_SERVICE"
	ActionUpdateScheduledService = "UPDATE_SCHEDULED_SERVICE"
	ActionDeleteScheduledService = "DELETE_SCHEDULED_SERVICE"
)

// AuditLog tracks Who, What, and When for mutating operations
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for portal/automated actions
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
