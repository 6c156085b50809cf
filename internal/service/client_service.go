package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"repairshop/internal/apperror"
	"repairshop/internal/model"
	"repairshop/internal/repository"

	"github.com/google/uuid"
)

type CreateClientRequest struct {
	FiscalID string `json:"fiscal_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
	Address  string `json:"address"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

type ClientService interface {
	CreateClient(ctx context.Context, userID string, req CreateClientRequest) (model.Client, error)
	UpdateClient(ctx context.Context, userID string, id string, req UpdateClientRequest) (model.Client, error)
	GetClient(ctx context.Context, id string) (model.Client, error)
	ListClients(ctx context.Context, page, limit int, search string) ([]model.Client, int64, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
	orderRepo  repository.WorkOrderRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	directory  *ClientDirectory
	now        func() time.Time
}

func NewClientService(deps WorkflowDeps) ClientService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &clientService{
		clientRepo: deps.Clients,
		orderRepo:  deps.Orders,
		auditRepo:  deps.Audit,
		txManager:  deps.TxManager,
		directory:  deps.Directory,
		now:        now,
	}
}

func (s *clientService) CreateClient(ctx context.Context, userID string, req CreateClientRequest) (model.Client, error) {
	fiscalID := strings.TrimSpace(req.FiscalID)
	if fiscalID == "" {
		return model.Client{}, apperror.Validation("fiscal id is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Client{}, apperror.Validation("name is required")
	}

	now := s.now()
	client := model.Client{
		ID:        uuid.New(),
		FiscalID:  fiscalID,
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		Email:     normalizeEmail(req.Email),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureUnique(txCtx, uuid.Nil, client.FiscalID, client.Email); err != nil {
			return err
		}
		if err := s.clientRepo.Create(txCtx, &client); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Validation("a client with fiscal id %q or this email already exists", client.FiscalID)
			}
			return fmt.Errorf("failed to create client: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionCreateClient, client.ID.String(), client.Name, req)
	})
	if err != nil {
		return model.Client{}, err
	}
	return client, nil
}

func (s *clientService) UpdateClient(ctx context.Context, userID string, id string, req UpdateClientRequest) (model.Client, error) {
	clientID, err := parseID("client", id)
	if err != nil {
		return model.Client{}, err
	}

	var client *model.Client
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		client, err = s.clientRepo.FindByID(txCtx, clientID)
		if err != nil {
			return lookupErr(err, "client", id)
		}
		prevName, prevPhone := client.Name, client.Phone

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperror.Validation("name is required")
			}
			client.Name = name
		}
		if req.Phone != nil {
			client.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.Email != nil {
			client.Email = normalizeEmail(*req.Email)
			if err := s.ensureUnique(txCtx, client.ID, "", client.Email); err != nil {
				return err
			}
		}
		if req.Address != nil {
			client.Address = strings.TrimSpace(*req.Address)
		}
		client.UpdatedAt = s.now()

		if err := s.clientRepo.Update(txCtx, client); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Validation("email is already used by another client")
			}
			return fmt.Errorf("failed to update client: %w", err)
		}

		// orders keep a copy of name and phone for listing
		if client.Name != prevName || client.Phone != prevPhone {
			if err := s.orderRepo.UpdateClientFields(txCtx, client.ID, client.Name, client.Phone); err != nil {
				return fmt.Errorf("failed to refresh work orders: %w", err)
			}
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionUpdateClient, client.ID.String(), client.Name, req)
	})
	if err != nil {
		return model.Client{}, err
	}

	if s.directory != nil {
		s.directory.Invalidate(clientID)
	}
	return *client, nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (model.Client, error) {
	clientID, err := parseID("client", id)
	if err != nil {
		return model.Client{}, err
	}
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return model.Client{}, lookupErr(err, "client", id)
	}
	return *client, nil
}

func (s *clientService) ListClients(ctx context.Context, page, limit int, search string) ([]model.Client, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.clientRepo.List(ctx, page, limit, strings.TrimSpace(search))
}

// ensureUnique rejects a fiscal id or email already held by another client.
// Empty values are not checked.
func (s *clientService) ensureUnique(ctx context.Context, self uuid.UUID, fiscalID string, email *string) error {
	if fiscalID != "" {
		existing, err := s.clientRepo.FindByFiscalID(ctx, fiscalID)
		switch {
		case err == nil && existing.ID != self:
			return apperror.Validation("a client with fiscal id %q already exists", fiscalID)
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("database error: %w", err)
		}
	}
	if email != nil {
		existing, err := s.clientRepo.FindByEmail(ctx, *email)
		switch {
		case err == nil && existing.ID != self:
			return apperror.Validation("a client with email %q already exists", *email)
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("database error: %w", err)
		}
	}
	return nil
}

func normalizeEmail(raw string) *string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return nil
	}
	return &email
}
