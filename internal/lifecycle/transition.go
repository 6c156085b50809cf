package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"repairshop/internal/model"
)

// Patch is a partial update of a work order. Nil fields are left untouched.
// PaymentStatus and TotalPaidAmount are only filled by ReconcilePayment.
type Patch struct {
	Area   *model.Area
	Status *model.Status

	// ClientName and ClientPhone are resolved by the caller when ClientID changes.
	ClientID    *uuid.UUID
	ClientName  *string
	ClientPhone *string

	EquipmentType     *string
	EquipmentBrand    *string
	EquipmentModel    *string
	EquipmentSerial   *string
	EquipmentPassword *string
	ReportedFault     *string
	DiagnosisNotes    *string

	ScheduledMaintenanceDate *time.Time
	ScheduledMaintenanceType *string

	BudgetItems               *[]model.BudgetItem
	OverallDiscountPercentage *decimal.Decimal
	IvaPercentage             *decimal.Decimal
	BudgetApproved            *bool
	BudgetNotes               *string

	PaymentStatus   *model.PaymentStatus
	TotalPaidAmount *decimal.Decimal
}

// StockDeduction asks the inventory to take parts used by a finished repair.
type StockDeduction struct {
	InventoryItemID uuid.UUID
	ItemName        string
	Quantity        int
}

// CostOfGoods asks the ledger to expense parts handed over at delivery. The
// amount is resolved from the inventory cost price when applied.
type CostOfGoods struct {
	InventoryItemID uuid.UUID
	ItemName        string
	Quantity        int
	Date            time.Time
}

// Notice is a message for staff or for the order's client.
type Notice struct {
	Audience    model.Audience
	ClientID    *uuid.UUID
	WorkOrderID uuid.UUID
	Message     string
}

// Plan is the outcome of applying a patch: the next snapshot and the effects
// the caller must carry out in the same unit of work.
type Plan struct {
	Prior           model.WorkOrder
	Next            model.WorkOrder
	StockDeductions []StockDeduction
	CostOfGoods     []CostOfGoods
	Notices         []Notice
	// Violation is set when the resulting status is not legal for the area.
	Violation string
}

// ClientChanged reports whether the patch moved the order to another client.
func (p Plan) ClientChanged() bool {
	return p.Prior.ClientID != p.Next.ClientID
}

// PlanUpdate merges patch onto prior and derives every side effect of the change.
func PlanUpdate(prior model.WorkOrder, patch Patch, now time.Time) Plan {
	next := merge(prior.Clone(), patch)
	next.UpdatedAt = now

	plan := Plan{Prior: prior, Next: next}

	if !IsLegal(next.Area, next.Status) {
		plan.Violation = fmt.Sprintf("status %s is not legal in area %s", next.Status, next.Area)
	}

	areaChanged := prior.Area != next.Area
	statusChanged := prior.Status != next.Status

	if statusChanged && next.Status == model.StatusAwaitingApproval && !next.BudgetApproved {
		plan.client(next, fmt.Sprintf("The budget for your order %s is ready. Please contact the shop to review and approve it.", next.DisplayID))
		plan.admin(next, fmt.Sprintf("%s (%s) is awaiting budget approval from the client.", next.DisplayID, next.ClientName))
	}

	transitionNotified := false
	switch {
	case areaChanged && statusChanged:
		plan.admin(next, fmt.Sprintf("%s moved from %s / %s to %s / %s.", next.DisplayID,
			AreaLabel(prior.Area), StatusLabel(prior.Status), AreaLabel(next.Area), StatusLabel(next.Status)))
		transitionNotified = true
	case areaChanged:
		plan.admin(next, fmt.Sprintf("%s moved from area %s to %s.", next.DisplayID, AreaLabel(prior.Area), AreaLabel(next.Area)))
		transitionNotified = true
	case statusChanged:
		plan.admin(next, fmt.Sprintf("%s status changed from %s to %s.", next.DisplayID, StatusLabel(prior.Status), StatusLabel(next.Status)))
		transitionNotified = true
	}

	if next.Status == model.StatusRepaired && !isResolved(prior.Status) {
		for _, item := range next.BudgetItems {
			if item.IsService || item.InventoryItemID == nil || item.Quantity <= 0 {
				continue
			}
			plan.StockDeductions = append(plan.StockDeductions, StockDeduction{
				InventoryItemID: *item.InventoryItemID,
				ItemName:        item.Name,
				Quantity:        item.Quantity,
			})
		}
	}

	// Delivery is recognised once; a later return to DELIVERED keeps the first date.
	if next.Status == model.StatusDelivered && prior.Status != model.StatusDelivered && prior.DeliveryDate == nil {
		deliveredAt := now
		plan.Next.DeliveryDate = &deliveredAt
		for _, item := range next.BudgetItems {
			if item.IsService || item.InventoryItemID == nil || item.Quantity <= 0 {
				continue
			}
			plan.CostOfGoods = append(plan.CostOfGoods, CostOfGoods{
				InventoryItemID: *item.InventoryItemID,
				ItemName:        item.Name,
				Quantity:        item.Quantity,
				Date:            deliveredAt,
			})
		}
		if !transitionNotified {
			plan.admin(next, fmt.Sprintf("%s was delivered to %s.", next.DisplayID, next.ClientName))
		}
	}

	if maintenanceChanged(prior, next) && next.ScheduledMaintenanceDate != nil && next.ScheduledMaintenanceType != "" {
		plan.admin(next, fmt.Sprintf("Maintenance \"%s\" scheduled for %s on %s.", next.ScheduledMaintenanceType,
			next.DisplayID, next.ScheduledMaintenanceDate.Format("2006-01-02")))
	}

	if patch.PaymentStatus != nil && *patch.PaymentStatus != prior.PaymentStatus {
		plan.admin(next, fmt.Sprintf("Payment status of %s changed from %s to %s.", next.DisplayID, prior.PaymentStatus, next.PaymentStatus))
	}

	return plan
}

func (p *Plan) admin(order model.WorkOrder, message string) {
	p.Notices = append(p.Notices, Notice{
		Audience:    model.AudienceAdmin,
		WorkOrderID: order.ID,
		Message:     message,
	})
}

func (p *Plan) client(order model.WorkOrder, message string) {
	clientID := order.ClientID
	p.Notices = append(p.Notices, Notice{
		Audience:    model.AudienceClient,
		ClientID:    &clientID,
		WorkOrderID: order.ID,
		Message:     message,
	})
}

func maintenanceChanged(prior, next model.WorkOrder) bool {
	if prior.ScheduledMaintenanceType != next.ScheduledMaintenanceType {
		return true
	}
	switch {
	case prior.ScheduledMaintenanceDate == nil && next.ScheduledMaintenanceDate == nil:
		return false
	case prior.ScheduledMaintenanceDate == nil || next.ScheduledMaintenanceDate == nil:
		return true
	default:
		return !prior.ScheduledMaintenanceDate.Equal(*next.ScheduledMaintenanceDate)
	}
}

func merge(order model.WorkOrder, patch Patch) model.WorkOrder {
	if patch.Area != nil {
		order.Area = *patch.Area
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.ClientID != nil {
		order.ClientID = *patch.ClientID
	}
	setString(&order.ClientName, patch.ClientName)
	setString(&order.ClientPhone, patch.ClientPhone)
	setString(&order.EquipmentType, patch.EquipmentType)
	setString(&order.EquipmentBrand, patch.EquipmentBrand)
	setString(&order.EquipmentModel, patch.EquipmentModel)
	setString(&order.EquipmentSerial, patch.EquipmentSerial)
	setString(&order.EquipmentPassword, patch.EquipmentPassword)
	setString(&order.ReportedFault, patch.ReportedFault)
	setString(&order.DiagnosisNotes, patch.DiagnosisNotes)
	setString(&order.ScheduledMaintenanceType, patch.ScheduledMaintenanceType)
	setString(&order.BudgetNotes, patch.BudgetNotes)
	if patch.ScheduledMaintenanceDate != nil {
		d := *patch.ScheduledMaintenanceDate
		order.ScheduledMaintenanceDate = &d
	}
	if patch.BudgetItems != nil {
		items := make([]model.BudgetItem, len(*patch.BudgetItems))
		copy(items, *patch.BudgetItems)
		order.BudgetItems = items
	}
	if patch.OverallDiscountPercentage != nil {
		order.OverallDiscountPercentage = *patch.OverallDiscountPercentage
	}
	if patch.IvaPercentage != nil {
		order.IvaPercentage = *patch.IvaPercentage
	}
	if patch.BudgetApproved != nil {
		order.BudgetApproved = *patch.BudgetApproved
	}
	if patch.PaymentStatus != nil {
		order.PaymentStatus = *patch.PaymentStatus
	}
	if patch.TotalPaidAmount != nil {
		order.TotalPaidAmount = *patch.TotalPaidAmount
	}
	return order
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
