package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Area is the coarse stage of a work order's lifecycle.
type Area string

const (
	AreaServiceRequests  Area = "SERVICE_REQUESTS"
	AreaIntake           Area = "INTAKE"
	AreaReadyForPickup   Area = "READY_FOR_PICKUP"
	AreaCompletedHistory Area = "COMPLETED_HISTORY"
)

// Status is the fine-grained state of a work order inside its area.
type Status string

const (
	StatusRequestPending   Status = "REQUEST_PENDING"
	StatusCancelled        Status = "CANCELLED"
	StatusPendingDiagnosis Status = "PENDING_DIAGNOSIS"
	StatusInProgress       Status = "IN_PROGRESS"
	StatusWaitingForParts  Status = "WAITING_FOR_PARTS"
	StatusAwaitingApproval Status = "AWAITING_APPROVAL"
	StatusRepaired         Status = "REPAIRED"
	StatusNoSolutionFound  Status = "NO_SOLUTION_FOUND"
	StatusDelivered        Status = "DELIVERED"
	StatusInStorage        Status = "IN_STORAGE"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// DisplayIDPrefix and FirstDisplayNumber shape human-facing ids such as OT-1001.
const (
	DisplayIDPrefix    = "OT-"
	FirstDisplayNumber = 1001
)

// BudgetItem is one line of a work order estimate. It is owned by the order
// and persisted inside it.
type BudgetItem struct {
	ID                 uuid.UUID        `json:"id"`
	InventoryItemID    *uuid.UUID       `json:"inventory_item_id,omitempty"`
	Name               string           `json:"name"`
	Quantity           int              `json:"quantity"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	IsService          bool             `json:"is_service"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
	InvoiceNote        string           `json:"invoice_note,omitempty"`
}

// WorkOrder is a repair ticket (OT) tracking one client's equipment.
type WorkOrder struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DisplayID string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"display_id"`
	Area      Area      `gorm:"type:varchar(30);not null;index" json:"area"`
	Status    Status    `gorm:"type:varchar(30);not null;index" json:"status"`

	ClientID    uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	ClientName  string    `gorm:"type:varchar(255)" json:"client_name"`
	ClientPhone string    `gorm:"type:varchar(50)" json:"client_phone"`

	EquipmentType     string `gorm:"type:varchar(100)" json:"equipment_type"`
	EquipmentBrand    string `gorm:"type:varchar(100)" json:"equipment_brand"`
	EquipmentModel    string `gorm:"type:varchar(100)" json:"equipment_model"`
	EquipmentSerial   string `gorm:"type:varchar(100);not null;index" json:"equipment_serial"`
	EquipmentPassword string `gorm:"type:varchar(100)" json:"equipment_password,omitempty"`
	ReportedFault     string `gorm:"type:text" json:"reported_fault"`
	DiagnosisNotes    string `gorm:"type:text" json:"diagnosis_notes"`

	ScheduledMaintenanceDate *time.Time `json:"scheduled_maintenance_date,omitempty"`
	ScheduledMaintenanceType string     `gorm:"type:varchar(100)" json:"scheduled_maintenance_type,omitempty"`

	BudgetItems               []BudgetItem    `gorm:"serializer:json;type:jsonb" json:"budget_items"`
	OverallDiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);default:0;not null" json:"overall_discount_percentage"`
	IvaPercentage             decimal.Decimal `gorm:"type:numeric(5,2);default:0;not null" json:"iva_percentage"`
	BudgetApproved            bool            `gorm:"default:false;not null" json:"budget_approved"`
	BudgetNotes               string          `gorm:"type:text" json:"budget_notes"`

	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);default:'PENDING';not null" json:"payment_status"`
	TotalPaidAmount decimal.Decimal `gorm:"type:numeric(16,2);default:0;not null" json:"total_paid_amount"`

	ScheduledServiceID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"scheduled_service_id,omitempty"`

	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Clone returns a deep copy so plans never alias the stored snapshot.
func (w WorkOrder) Clone() WorkOrder {
	out := w
	if w.BudgetItems != nil {
		out.BudgetItems = make([]BudgetItem, len(w.BudgetItems))
		copy(out.BudgetItems, w.BudgetItems)
	}
	if w.ScheduledMaintenanceDate != nil {
		t := *w.ScheduledMaintenanceDate
		out.ScheduledMaintenanceDate = &t
	}
	if w.DeliveryDate != nil {
		t := *w.DeliveryDate
		out.DeliveryDate = &t
	}
	if w.ScheduledServiceID != nil {
		id := *w.ScheduledServiceID
		out.ScheduledServiceID = &id
	}
	return out
}

// Sequence backs monotonically increasing counters such as work order display ids.
type Sequence struct {
	Name  string `gorm:"type:varchar(50);primaryKey"`
	Value int64  `gorm:"not null"`
}
