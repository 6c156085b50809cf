package repository

import (
	"context"

	"repairshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkOrderRepository interface {
	Create(ctx context.Context, order *model.WorkOrder) error
	Update(ctx context.Context, order *model.WorkOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	FindByScheduledServiceID(ctx context.Context, serviceID uuid.UUID) (*model.WorkOrder, error)
	List(ctx context.Context, filter WorkOrderFilter, page, limit int) ([]model.WorkOrder, int64, error)
	// UpdateClientFields rewrites the denormalized client name and phone on every order of a client.
	UpdateClientFields(ctx context.Context, clientID uuid.UUID, name, phone string) error
}

type workOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) WorkOrderRepository {
	return &workOrderRepository{db: db}
}

func (r *workOrderRepository) Create(ctx context.Context, order *model.WorkOrder) error {
	return translate(GetDB(ctx, r.db).Create(order).Error)
}

func (r *workOrderRepository) Update(ctx context.Context, order *model.WorkOrder) error {
	return translate(GetDB(ctx, r.db).Save(order).Error)
}

func (r *workOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.WorkOrder{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *workOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var order model.WorkOrder
	if err := GetDB(ctx, r.db).First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *workOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var order model.WorkOrder
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *workOrderRepository) FindByScheduledServiceID(ctx context.Context, serviceID uuid.UUID) (*model.WorkOrder, error) {
	var order model.WorkOrder
	if err := GetDB(ctx, r.db).Where("scheduled_service_id = ?", serviceID).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *workOrderRepository) List(ctx context.Context, filter WorkOrderFilter, page, limit int) ([]model.WorkOrder, int64, error) {
	var orders []model.WorkOrder
	var total int64

	db := GetDB(ctx, r.db).Model(&model.WorkOrder{})
	if filter.Area != "" {
		db = db.Where("area = ?", filter.Area)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.ClientID != nil {
		db = db.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("display_id ILIKE ? OR equipment_serial ILIKE ? OR client_name ILIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *workOrderRepository) UpdateClientFields(ctx context.Context, clientID uuid.UUID, name, phone string) error {
	return GetDB(ctx, r.db).Model(&model.WorkOrder{}).Where("client_id = ?", clientID).
		Updates(map[string]interface{}{"client_name": name, "client_phone": phone}).Error
}
