package service

import (
	"context"
	"strings"
	"time"

	"repairshop/internal/apperror"
	"repairshop/internal/lifecycle"
	"repairshop/internal/model"
	"repairshop/internal/repository"

	"github.com/google/uuid"
)

type CreateScheduledServiceRequest struct {
	ClientID      string     `json:"client_id" binding:"required"`
	EquipmentType string     `json:"equipment_type"`
	Description   string     `json:"description" binding:"required"`
	RequestedDate *time.Time `json:"requested_date"`
}

type UpdateScheduledServiceRequest struct {
	EquipmentType *string    `json:"equipment_type"`
	Description   *string    `json:"description"`
	RequestedDate *time.Time `json:"requested_date"`
	Status        *string    `json:"status" binding:"omitempty,scheduled_status"`
}

type ScheduledServiceService interface {
	CreateScheduledService(ctx context.Context, userID string, source string, req CreateScheduledServiceRequest) (model.ScheduledService, error)
	UpdateScheduledService(ctx context.Context, userID string, id string, req UpdateScheduledServiceRequest) (model.ScheduledService, error)
	DeleteScheduledService(ctx context.Context, userID string, id string) error
	GetScheduledService(ctx context.Context, id string) (model.ScheduledService, error)
	ListScheduledServices(ctx context.Context, status string, clientID *uuid.UUID, page, limit int) ([]model.ScheduledService, int64, error)
}

type scheduledServiceService struct {
	repo       repository.ScheduledServiceRepository
	clientRepo repository.ClientRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	now        func() time.Time
}

func NewScheduledServiceService(deps WorkflowDeps) ScheduledServiceService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &scheduledServiceService{
		repo:       deps.Scheduled,
		clientRepo: deps.Clients,
		auditRepo:  deps.Audit,
		txManager:  deps.TxManager,
		now:        now,
	}
}

func (s *scheduledServiceService) CreateScheduledService(ctx context.Context, userID string, source string, req CreateScheduledServiceRequest) (model.ScheduledService, error) {
	clientID, err := parseID("client", req.ClientID)
	if err != nil {
		return model.ScheduledService{}, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return model.ScheduledService{}, apperror.Validation("description is required")
	}
	if source == "" {
		source = model.SourceStaff
	}

	now := s.now()
	svc := model.ScheduledService{
		ID:            uuid.New(),
		ClientID:      clientID,
		EquipmentType: strings.TrimSpace(req.EquipmentType),
		Description:   strings.TrimSpace(req.Description),
		RequestedDate: req.RequestedDate,
		Source:        source,
		Status:        model.ScheduledPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		client, err := s.clientRepo.FindByID(txCtx, clientID)
		if err != nil {
			return lookupErr(err, "client", req.ClientID)
		}
		svc.ClientName = client.Name

		if err := s.repo.Create(txCtx, &svc); err != nil {
			return lookupErr(err, "scheduled service", svc.ID.String())
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionCreateScheduledService, svc.ID.String(), svc.ClientName, req)
	})
	if err != nil {
		return model.ScheduledService{}, err
	}
	return svc, nil
}

func (s *scheduledServiceService) UpdateScheduledService(ctx context.Context, userID string, id string, req UpdateScheduledServiceRequest) (model.ScheduledService, error) {
	svcID, err := parseID("scheduled service", id)
	if err != nil {
		return model.ScheduledService{}, err
	}

	var svc *model.ScheduledService
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		svc, err = s.repo.FindByIDForUpdate(txCtx, svcID)
		if err != nil {
			return lookupErr(err, "scheduled service", id)
		}

		if req.Status != nil {
			next := model.ScheduledServiceStatus(*req.Status)
			if !lifecycle.IsValidScheduledStatus(next) {
				return apperror.Validation("unknown scheduled service status %q", next)
			}
			// conversion only happens by creating the work order
			if next == model.ScheduledConverted && svc.Status != model.ScheduledConverted {
				return apperror.Validation("create a work order with this scheduled service to convert it")
			}
			if !lifecycle.CanTransitionScheduled(svc.Status, next) {
				return apperror.Validation("scheduled service cannot move from %s to %s", svc.Status, next)
			}
			svc.Status = next
		}
		if req.EquipmentType != nil {
			svc.EquipmentType = strings.TrimSpace(*req.EquipmentType)
		}
		if req.Description != nil {
			svc.Description = strings.TrimSpace(*req.Description)
		}
		if req.RequestedDate != nil {
			svc.RequestedDate = req.RequestedDate
		}
		svc.UpdatedAt = s.now()

		if err := s.repo.Update(txCtx, svc); err != nil {
			return lookupErr(err, "scheduled service", id)
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionUpdateScheduledService, svc.ID.String(), svc.ClientName, req)
	})
	if err != nil {
		return model.ScheduledService{}, err
	}
	return *svc, nil
}

func (s *scheduledServiceService) DeleteScheduledService(ctx context.Context, userID string, id string) error {
	svcID, err := parseID("scheduled service", id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		svc, err := s.repo.FindByIDForUpdate(txCtx, svcID)
		if err != nil {
			return lookupErr(err, "scheduled service", id)
		}
		if svc.Status == model.ScheduledConverted {
			return apperror.Validation("scheduled service was converted into a work order and cannot be deleted")
		}
		if err := s.repo.Delete(txCtx, svcID); err != nil {
			return lookupErr(err, "scheduled service", id)
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionDeleteScheduledService, svc.ID.String(), svc.ClientName, nil)
	})
}

func (s *scheduledServiceService) GetScheduledService(ctx context.Context, id string) (model.ScheduledService, error) {
	svcID, err := parseID("scheduled service", id)
	if err != nil {
		return model.ScheduledService{}, err
	}
	svc, err := s.repo.FindByID(ctx, svcID)
	if err != nil {
		return model.ScheduledService{}, lookupErr(err, "scheduled service", id)
	}
	return *svc, nil
}

func (s *scheduledServiceService) ListScheduledServices(ctx context.Context, status string, clientID *uuid.UUID, page, limit int) ([]model.ScheduledService, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.List(ctx, repository.ScheduledServiceFilter{
		Status:   model.ScheduledServiceStatus(strings.ToUpper(status)),
		ClientID: clientID,
	}, page, limit)
}
