package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"repairshop/internal/apperror"
	"repairshop/internal/lifecycle"
	"repairshop/internal/model"
	"repairshop/internal/repository"
	"repairshop/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs
type BudgetItemRequest struct {
	ID                 string           `json:"id"`
	InventoryItemID    *string          `json:"inventory_item_id"`
	Name               string           `json:"name" binding:"required"`
	Quantity           int              `json:"quantity" binding:"min=0"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	IsService          bool             `json:"is_service"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	InvoiceNote        string           `json:"invoice_note"`
}

type CreateWorkOrderRequest struct {
	ClientID                  string              `json:"client_id" binding:"required"`
	Area                      string              `json:"area" binding:"omitempty,work_area"`
	Status                    string              `json:"status" binding:"omitempty,work_status"`
	EquipmentType             string              `json:"equipment_type"`
	EquipmentBrand            string              `json:"equipment_brand"`
	EquipmentModel            string              `json:"equipment_model"`
	EquipmentSerial           string              `json:"equipment_serial"`
	EquipmentPassword         string              `json:"equipment_password"`
	ReportedFault             string              `json:"reported_fault"`
	DiagnosisNotes            string              `json:"diagnosis_notes"`
	ScheduledMaintenanceDate  *time.Time          `json:"scheduled_maintenance_date"`
	ScheduledMaintenanceType  string              `json:"scheduled_maintenance_type"`
	BudgetItems               []BudgetItemRequest `json:"budget_items" binding:"dive"`
	OverallDiscountPercentage decimal.Decimal     `json:"overall_discount_percentage"`
	IvaPercentage             decimal.Decimal     `json:"iva_percentage"`
	BudgetApproved            bool                `json:"budget_approved"`
	BudgetNotes               string              `json:"budget_notes"`
	ScheduledServiceID        *string             `json:"scheduled_service_id"`
}

// UpdateWorkOrderRequest is a partial update; absent fields are left untouched.
type UpdateWorkOrderRequest struct {
	Area                      *string              `json:"area" binding:"omitempty,work_area"`
	Status                    *string              `json:"status" binding:"omitempty,work_status"`
	ClientID                  *string              `json:"client_id"`
	EquipmentType             *string              `json:"equipment_type"`
	EquipmentBrand            *string              `json:"equipment_brand"`
	EquipmentModel            *string              `json:"equipment_model"`
	EquipmentSerial           *string              `json:"equipment_serial"`
	EquipmentPassword         *string              `json:"equipment_password"`
	ReportedFault             *string              `json:"reported_fault"`
	DiagnosisNotes            *string              `json:"diagnosis_notes"`
	ScheduledMaintenanceDate  *time.Time           `json:"scheduled_maintenance_date"`
	ScheduledMaintenanceType  *string              `json:"scheduled_maintenance_type"`
	BudgetItems               *[]BudgetItemRequest `json:"budget_items" binding:"omitempty,dive"`
	OverallDiscountPercentage *decimal.Decimal     `json:"overall_discount_percentage"`
	IvaPercentage             *decimal.Decimal     `json:"iva_percentage"`
	BudgetApproved            *bool                `json:"budget_approved"`
	BudgetNotes               *string              `json:"budget_notes"`
}

type WorkOrderResponse struct {
	model.WorkOrder
	Budget            lifecycle.Totals `json:"budget"`
	GrandTotalDisplay string           `json:"grand_total_display"`
	BalanceDue        decimal.Decimal  `json:"balance_due"`
}

type WorkOrderListQuery struct {
	Area     string
	Status   string
	ClientID *uuid.UUID
	Search   string
	Page     int
	Limit    int
}

type WorkOrderService interface {
	CreateWorkOrder(ctx context.Context, userID string, req CreateWorkOrderRequest) (WorkOrderResponse, error)
	UpdateWorkOrder(ctx context.Context, userID string, id string, req UpdateWorkOrderRequest) (WorkOrderResponse, error)
	DeleteWorkOrder(ctx context.Context, userID string, id string) error
	GetWorkOrder(ctx context.Context, id string) (WorkOrderResponse, error)
	ListWorkOrders(ctx context.Context, q WorkOrderListQuery) ([]WorkOrderResponse, int64, error)
}

type WorkflowDeps struct {
	Orders       repository.WorkOrderRepository
	Sequences    repository.SequenceRepository
	Clients      repository.ClientRepository
	Scheduled    repository.ScheduledServiceRepository
	Inventory    repository.InventoryRepository
	Movements    repository.InventoryMovementRepository
	Transactions repository.TransactionRepository
	Audit        repository.AuditRepository
	TxManager    repository.TransactionManager
	Notifier     *Notifier
	Directory    *ClientDirectory
	Logger       *slog.Logger
	// StrictTransitions rejects updates that leave the status outside its area.
	StrictTransitions bool
	Now               func() time.Time
}

type workOrderService struct {
	orders    repository.WorkOrderRepository
	sequences repository.SequenceRepository
	clients   repository.ClientRepository
	scheduled repository.ScheduledServiceRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
	notifier  *Notifier
	directory *ClientDirectory
	engine    *workOrderEngine
	strict    bool
	logger    *slog.Logger
	now       func() time.Time
}

func NewWorkOrderService(deps WorkflowDeps) WorkOrderService {
	engine := newWorkOrderEngine(deps)
	return &workOrderService{
		orders:    deps.Orders,
		sequences: deps.Sequences,
		clients:   deps.Clients,
		scheduled: deps.Scheduled,
		audit:     deps.Audit,
		txManager: deps.TxManager,
		notifier:  deps.Notifier,
		directory: deps.Directory,
		engine:    engine,
		strict:    deps.StrictTransitions,
		logger:    engine.logger,
		now:       engine.now,
	}
}

func (s *workOrderService) CreateWorkOrder(ctx context.Context, userID string, req CreateWorkOrderRequest) (WorkOrderResponse, error) {
	if strings.TrimSpace(req.EquipmentSerial) == "" {
		return WorkOrderResponse{}, apperror.Validation("equipment serial is required")
	}
	clientID, err := parseID("client", req.ClientID)
	if err != nil {
		return WorkOrderResponse{}, err
	}
	serviceID, err := parseOptionalID("scheduled service", req.ScheduledServiceID)
	if err != nil {
		return WorkOrderResponse{}, err
	}

	area, status := lifecycle.DefaultPlacement()
	if req.Area != "" {
		area = model.Area(req.Area)
	}
	if req.Status != "" {
		status = model.Status(req.Status)
	}
	if !lifecycle.IsValidArea(area) {
		return WorkOrderResponse{}, apperror.Validation("unknown area %q", area)
	}
	if !lifecycle.IsValidStatus(status) {
		return WorkOrderResponse{}, apperror.Validation("unknown status %q", status)
	}
	if !lifecycle.IsLegal(area, status) {
		if s.strict {
			return WorkOrderResponse{}, apperror.Validation("status %s is not legal in area %s", status, area)
		}
		s.logger.Warn("work order created in an illegal area/status pair",
			slog.String("area", string(area)), slog.String("status", string(status)))
	}

	items, err := toBudgetItems(req.BudgetItems)
	if err != nil {
		return WorkOrderResponse{}, err
	}
	if err := lifecycle.ValidateBudget(items, req.OverallDiscountPercentage, req.IvaPercentage); err != nil {
		return WorkOrderResponse{}, apperror.ValidationWrap(err, "invalid budget")
	}

	now := s.now()
	order := model.WorkOrder{
		ID:                        uuid.New(),
		Area:                      area,
		Status:                    status,
		ClientID:                  clientID,
		EquipmentType:             req.EquipmentType,
		EquipmentBrand:            req.EquipmentBrand,
		EquipmentModel:            req.EquipmentModel,
		EquipmentSerial:           strings.TrimSpace(req.EquipmentSerial),
		EquipmentPassword:         req.EquipmentPassword,
		ReportedFault:             req.ReportedFault,
		DiagnosisNotes:            req.DiagnosisNotes,
		ScheduledMaintenanceDate:  req.ScheduledMaintenanceDate,
		ScheduledMaintenanceType:  req.ScheduledMaintenanceType,
		BudgetItems:               items,
		OverallDiscountPercentage: req.OverallDiscountPercentage,
		IvaPercentage:             req.IvaPercentage,
		BudgetApproved:            req.BudgetApproved,
		BudgetNotes:               req.BudgetNotes,
		PaymentStatus:             model.PaymentPending,
		TotalPaidAmount:           decimal.Zero,
		ScheduledServiceID:        serviceID,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	var notes []model.Notification
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		client, err := s.clients.FindByID(txCtx, clientID)
		if err != nil {
			return lookupErr(err, "client", req.ClientID)
		}
		order.ClientName = client.Name
		order.ClientPhone = client.Phone

		var svc *model.ScheduledService
		if serviceID != nil {
			svc, err = s.scheduled.FindByIDForUpdate(txCtx, *serviceID)
			if err != nil {
				return lookupErr(err, "scheduled service", serviceID.String())
			}
			if !lifecycle.CanConvert(svc.Status) {
				return apperror.Validation("scheduled service in status %s cannot be converted", svc.Status)
			}
		}

		n, err := s.sequences.Next(txCtx, repository.WorkOrderSequence, model.FirstDisplayNumber)
		if err != nil {
			return fmt.Errorf("failed to allocate display id: %w", err)
		}
		order.DisplayID = fmt.Sprintf("%s%d", model.DisplayIDPrefix, n)

		if err := s.orders.Create(txCtx, &order); err != nil {
			return lookupErr(err, "work order", order.DisplayID)
		}

		if svc != nil {
			svc.Status = model.ScheduledConverted
			svc.WorkOrderID = &order.ID
			svc.UpdatedAt = now
			if err := s.scheduled.Update(txCtx, svc); err != nil {
				return fmt.Errorf("failed to link scheduled service: %w", err)
			}
			notes, err = s.notifier.Record(txCtx, []lifecycle.Notice{lifecycle.ConversionNotice(order)})
			if err != nil {
				return err
			}
		}

		return writeAudit(txCtx, s.audit, userID, model.ActionCreateWorkOrder, order.ID.String(), order.DisplayID, req)
	})
	if err != nil {
		return WorkOrderResponse{}, err
	}

	s.notifier.Dispatch(ctx, notes)
	return toWorkOrderResponse(order), nil
}

func (s *workOrderService) UpdateWorkOrder(ctx context.Context, userID string, id string, req UpdateWorkOrderRequest) (WorkOrderResponse, error) {
	orderID, err := parseID("work order", id)
	if err != nil {
		return WorkOrderResponse{}, err
	}
	patch, err := toPatch(req)
	if err != nil {
		return WorkOrderResponse{}, err
	}

	var updated model.WorkOrder
	var notes []model.Notification
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		prior, err := s.orders.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return lookupErr(err, "work order", id)
		}

		if patch.ClientID != nil && *patch.ClientID != prior.ClientID {
			client, err := s.clients.FindByID(txCtx, *patch.ClientID)
			if err != nil {
				return lookupErr(err, "client", patch.ClientID.String())
			}
			patch.ClientName = &client.Name
			patch.ClientPhone = &client.Phone
		}

		if patch.BudgetItems != nil || patch.OverallDiscountPercentage != nil || patch.IvaPercentage != nil {
			items, overall, iva := prior.BudgetItems, prior.OverallDiscountPercentage, prior.IvaPercentage
			if patch.BudgetItems != nil {
				items = *patch.BudgetItems
			}
			if patch.OverallDiscountPercentage != nil {
				overall = *patch.OverallDiscountPercentage
			}
			if patch.IvaPercentage != nil {
				iva = *patch.IvaPercentage
			}
			if err := lifecycle.ValidateBudget(items, overall, iva); err != nil {
				return apperror.ValidationWrap(err, "invalid budget")
			}
		}

		updated, notes, err = s.engine.apply(txCtx, *prior, patch)
		if err != nil {
			return err
		}
		return writeAudit(txCtx, s.audit, userID, model.ActionUpdateWorkOrder, updated.ID.String(), updated.DisplayID, req)
	})
	if err != nil {
		return WorkOrderResponse{}, err
	}

	s.notifier.Dispatch(ctx, notes)
	return toWorkOrderResponse(updated), nil
}

func (s *workOrderService) DeleteWorkOrder(ctx context.Context, userID string, id string) error {
	orderID, err := parseID("work order", id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return lookupErr(err, "work order", id)
		}

		// a converted request goes back to the queue rather than pointing at nothing
		if order.ScheduledServiceID != nil {
			svc, err := s.scheduled.FindByIDForUpdate(txCtx, *order.ScheduledServiceID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
			case err != nil:
				return fmt.Errorf("failed to load scheduled service: %w", err)
			default:
				svc.Status = model.ScheduledPending
				svc.WorkOrderID = nil
				svc.UpdatedAt = s.now()
				if err := s.scheduled.Update(txCtx, svc); err != nil {
					return fmt.Errorf("failed to unlink scheduled service: %w", err)
				}
			}
		}

		if err := s.orders.Delete(txCtx, orderID); err != nil {
			return lookupErr(err, "work order", id)
		}
		return writeAudit(txCtx, s.audit, userID, model.ActionDeleteWorkOrder, order.ID.String(), order.DisplayID, nil)
	})
}

func (s *workOrderService) GetWorkOrder(ctx context.Context, id string) (WorkOrderResponse, error) {
	orderID, err := parseID("work order", id)
	if err != nil {
		return WorkOrderResponse{}, err
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return WorkOrderResponse{}, lookupErr(err, "work order", id)
	}
	s.refreshClient(ctx, order)
	return toWorkOrderResponse(*order), nil
}

func (s *workOrderService) ListWorkOrders(ctx context.Context, q WorkOrderListQuery) ([]WorkOrderResponse, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	orders, total, err := s.orders.List(ctx, repository.WorkOrderFilter{
		Area:     model.Area(q.Area),
		Status:   model.Status(q.Status),
		ClientID: q.ClientID,
		Search:   strings.TrimSpace(q.Search),
	}, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]WorkOrderResponse, 0, len(orders))
	for i := range orders {
		s.refreshClient(ctx, &orders[i])
		res = append(res, toWorkOrderResponse(orders[i]))
	}
	return res, total, nil
}

// refreshClient overlays the current client name and phone on a read copy.
func (s *workOrderService) refreshClient(ctx context.Context, order *model.WorkOrder) {
	if s.directory == nil {
		return
	}
	client, err := s.directory.Lookup(ctx, order.ClientID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("client lookup failed", slog.String("client_id", order.ClientID.String()), slog.Any("error", err))
		}
		return
	}
	order.ClientName = client.Name
	order.ClientPhone = client.Phone
}

func toWorkOrderResponse(order model.WorkOrder) WorkOrderResponse {
	totals := lifecycle.OrderTotals(order)
	balance := totals.GrandTotal.Sub(order.TotalPaidAmount)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return WorkOrderResponse{
		WorkOrder:         order,
		Budget:            totals,
		GrandTotalDisplay: money.FormatCOP(totals.GrandTotal),
		BalanceDue:        balance,
	}
}

func toBudgetItems(reqs []BudgetItemRequest) ([]model.BudgetItem, error) {
	items := make([]model.BudgetItem, 0, len(reqs))
	for i, r := range reqs {
		item := model.BudgetItem{
			Name:               strings.TrimSpace(r.Name),
			Quantity:           r.Quantity,
			UnitPrice:          r.UnitPrice,
			IsService:          r.IsService,
			DiscountPercentage: r.DiscountPercentage,
			InvoiceNote:        r.InvoiceNote,
		}
		if r.ID != "" {
			id, err := uuid.Parse(r.ID)
			if err != nil {
				return nil, apperror.Validation("budget item %d: invalid id %q", i+1, r.ID)
			}
			item.ID = id
		} else {
			item.ID = uuid.New()
		}
		invID, err := parseOptionalID("inventory item", r.InventoryItemID)
		if err != nil {
			return nil, err
		}
		item.InventoryItemID = invID
		items = append(items, item)
	}
	return items, nil
}

func toPatch(req UpdateWorkOrderRequest) (lifecycle.Patch, error) {
	patch := lifecycle.Patch{
		EquipmentType:             req.EquipmentType,
		EquipmentBrand:            req.EquipmentBrand,
		EquipmentModel:            req.EquipmentModel,
		EquipmentPassword:         req.EquipmentPassword,
		ReportedFault:             req.ReportedFault,
		DiagnosisNotes:            req.DiagnosisNotes,
		ScheduledMaintenanceDate:  req.ScheduledMaintenanceDate,
		ScheduledMaintenanceType:  req.ScheduledMaintenanceType,
		OverallDiscountPercentage: req.OverallDiscountPercentage,
		IvaPercentage:             req.IvaPercentage,
		BudgetApproved:            req.BudgetApproved,
		BudgetNotes:               req.BudgetNotes,
	}

	if req.Area != nil {
		area := model.Area(*req.Area)
		if !lifecycle.IsValidArea(area) {
			return lifecycle.Patch{}, apperror.Validation("unknown area %q", area)
		}
		patch.Area = &area
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		if !lifecycle.IsValidStatus(status) {
			return lifecycle.Patch{}, apperror.Validation("unknown status %q", status)
		}
		patch.Status = &status
	}
	if req.EquipmentSerial != nil {
		serial := strings.TrimSpace(*req.EquipmentSerial)
		if serial == "" {
			return lifecycle.Patch{}, apperror.Validation("equipment serial is required")
		}
		patch.EquipmentSerial = &serial
	}
	if req.ClientID != nil {
		id, err := parseID("client", *req.ClientID)
		if err != nil {
			return lifecycle.Patch{}, err
		}
		patch.ClientID = &id
	}
	if req.BudgetItems != nil {
		items, err := toBudgetItems(*req.BudgetItems)
		if err != nil {
			return lifecycle.Patch{}, err
		}
		patch.BudgetItems = &items
	}
	return patch, nil
}
