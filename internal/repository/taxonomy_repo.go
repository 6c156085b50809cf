package repository

import (
	"context"

	"repairshop/internal/model"

	"gorm.io/gorm"
)

type TaxonomyRepository interface {
	Create(ctx context.Context, value *model.TaxonomyValue) error
	FindByNormalized(ctx context.Context, kind model.TaxonomyKind, normalized string) (*model.TaxonomyValue, error)
	List(ctx context.Context, kind model.TaxonomyKind) ([]model.TaxonomyValue, error)
}

type taxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) Create(ctx context.Context, value *model.TaxonomyValue) error {
	return translate(GetDB(ctx, r.db).Create(value).Error)
}

func (r *taxonomyRepository) FindByNormalized(ctx context.Context, kind model.TaxonomyKind, normalized string) (*model.TaxonomyValue, error) {
	var value model.TaxonomyValue
	if err := GetDB(ctx, r.db).Where("kind = ? AND normalized_value = ?", kind, normalized).First(&value).Error; err != nil {
		return nil, translate(err)
	}
	return &value, nil
}

func (r *taxonomyRepository) List(ctx context.Context, kind model.TaxonomyKind) ([]model.TaxonomyValue, error) {
	var values []model.TaxonomyValue
	if err := GetDB(ctx, r.db).Where("kind = ?", kind).Order("value asc").Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}
