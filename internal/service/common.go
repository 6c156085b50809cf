package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"repairshop/internal/apperror"
	"repairshop/internal/model"
	"repairshop/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return page, limit
}

func parseID(entity, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid %s id: %q", entity, raw)
	}
	return id, nil
}

func parseOptionalID(entity string, raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := parseID(entity, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// lookupErr turns repository sentinels into caller-facing errors.
func lookupErr(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(entity, id)
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Conflict("%s already exists", entity)
	default:
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}
}

func actorID(userID string) *uuid.UUID {
	if parsed, err := uuid.Parse(userID); err == nil {
		return &parsed
	}
	return nil
}

func writeAudit(ctx context.Context, repo repository.AuditRepository, userID, action, entityID, entityName string, details any) error {
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     actorID(userID),
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
