package repository

import (
	"context"

	"repairshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScheduledServiceRepository interface {
	Create(ctx context.Context, svc *model.ScheduledService) error
	Update(ctx context.Context, svc *model.ScheduledService) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ScheduledService, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ScheduledService, error)
	List(ctx context.Context, filter ScheduledServiceFilter, page, limit int) ([]model.ScheduledService, int64, error)
}

type scheduledServiceRepository struct {
	db *gorm.DB
}

func NewScheduledServiceRepository(db *gorm.DB) ScheduledServiceRepository {
	return &scheduledServiceRepository{db: db}
}

func (r *scheduledServiceRepository) Create(ctx context.Context, svc *model.ScheduledService) error {
	return translate(GetDB(ctx, r.db).Create(svc).Error)
}

func (r *scheduledServiceRepository) Update(ctx context.Context, svc *model.ScheduledService) error {
	return translate(GetDB(ctx, r.db).Save(svc).Error)
}

func (r *scheduledServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ScheduledService{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *scheduledServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ScheduledService, error) {
	var svc model.ScheduledService
	if err := GetDB(ctx, r.db).First(&svc, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &svc, nil
}

func (r *scheduledServiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ScheduledService, error) {
	var svc model.ScheduledService
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&svc).Error; err != nil {
		return nil, translate(err)
	}
	return &svc, nil
}

func (r *scheduledServiceRepository) List(ctx context.Context, filter ScheduledServiceFilter, page, limit int) ([]model.ScheduledService, int64, error) {
	var services []model.ScheduledService
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ScheduledService{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.ClientID != nil {
		db = db.Where("client_id = ?", *filter.ClientID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&services).Error; err != nil {
		return nil, 0, err
	}

	return services, total, nil
}
