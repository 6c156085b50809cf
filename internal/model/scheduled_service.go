package model

import (
	"time"

	"github.com/google/uuid"
)

type ScheduledServiceStatus string

const (
	ScheduledPending    ScheduledServiceStatus = "PENDING"
	ScheduledInProgress ScheduledServiceStatus = "IN_PROGRESS"
	ScheduledCompleted  ScheduledServiceStatus = "COMPLETED"
	ScheduledCancelled  ScheduledServiceStatus = "CANCELLED"
	ScheduledConverted  ScheduledServiceStatus = "CONVERTED_TO_WORK_ORDER"
)

const (
	SourceStaff  = "STAFF"
	SourcePortal = "PORTAL"
)

// ScheduledService is a client's request for future service, before it is
// promoted into a work order.
type ScheduledService struct {
	ID            uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID      uuid.UUID              `gorm:"type:uuid;not null;index" json:"client_id"`
	ClientName    string                 `gorm:"type:varchar(255)" json:"client_name"`
	EquipmentType string                 `gorm:"type:varchar(100)" json:"equipment_type"`
	Description   string                 `gorm:"type:text" json:"description"`
	RequestedDate *time.Time             `json:"requested_date,omitempty"`
	Source        string                 `gorm:"type:varchar(20);default:'STAFF';not null" json:"source"`
	Status        ScheduledServiceStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	WorkOrderID   *uuid.UUID             `gorm:"type:uuid;uniqueIndex" json:"work_order_id,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}
