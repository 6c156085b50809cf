package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"repairshop/internal/apperror"
	"repairshop/internal/model"
	"repairshop/internal/repository"

	"github.com/google/uuid"
)

type AddTaxonomyValueRequest struct {
	Value string `json:"value" binding:"required,max=100"`
}

type TaxonomyService interface {
	// AddValue returns the stored entry; adding a value that already exists
	// (ignoring case and surrounding spaces) returns the existing one.
	AddValue(ctx context.Context, kind string, value string) (model.TaxonomyValue, error)
	ListValues(ctx context.Context, kind string) ([]model.TaxonomyValue, error)
}

type taxonomyService struct {
	repo repository.TaxonomyRepository
}

func NewTaxonomyService(repo repository.TaxonomyRepository) TaxonomyService {
	return &taxonomyService{repo: repo}
}

func parseTaxonomyKind(raw string) (model.TaxonomyKind, error) {
	kind := model.TaxonomyKind(strings.ToUpper(strings.TrimSpace(raw)))
	switch kind {
	case model.TaxonomyBrand, model.TaxonomyCategory, model.TaxonomyEquipmentType:
		return kind, nil
	}
	return "", apperror.Validation("unknown taxonomy %q", raw)
}

func (s *taxonomyService) AddValue(ctx context.Context, rawKind string, value string) (model.TaxonomyValue, error) {
	kind, err := parseTaxonomyKind(rawKind)
	if err != nil {
		return model.TaxonomyValue{}, err
	}
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return model.TaxonomyValue{}, apperror.Validation("value is required")
	}
	normalized := strings.ToLower(value)

	existing, err := s.repo.FindByNormalized(ctx, kind, normalized)
	if err == nil {
		return *existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.TaxonomyValue{}, fmt.Errorf("database error: %w", err)
	}

	entry := model.TaxonomyValue{
		ID:              uuid.New(),
		Kind:            kind,
		Value:           value,
		NormalizedValue: normalized,
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with another writer
			if existing, findErr := s.repo.FindByNormalized(ctx, kind, normalized); findErr == nil {
				return *existing, nil
			}
			return model.TaxonomyValue{}, apperror.Conflict("%s %q already exists", kind, value)
		}
		return model.TaxonomyValue{}, fmt.Errorf("failed to add taxonomy value: %w", err)
	}
	return entry, nil
}

func (s *taxonomyService) ListValues(ctx context.Context, rawKind string) ([]model.TaxonomyValue, error) {
	kind, err := parseTaxonomyKind(rawKind)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, kind)
}
