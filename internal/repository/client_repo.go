package repository

import (
	"context"

	"repairshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	Update(ctx context.Context, client *model.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	FindByFiscalID(ctx context.Context, fiscalID string) (*model.Client, error)
	FindByEmail(ctx context.Context, email string) (*model.Client, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Client, int64, error)
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	return translate(GetDB(ctx, r.db).Create(client).Error)
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	return translate(GetDB(ctx, r.db).Save(client).Error)
}

func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := GetDB(ctx, r.db).First(&client, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (r *clientRepository) FindByFiscalID(ctx context.Context, fiscalID string) (*model.Client, error) {
	var client model.Client
	if err := GetDB(ctx, r.db).Where("fiscal_id = ?", fiscalID).First(&client).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (r *clientRepository) FindByEmail(ctx context.Context, email string) (*model.Client, error) {
	var client model.Client
	if err := GetDB(ctx, r.db).Where("LOWER(email) = LOWER(?)", email).First(&client).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, page, limit int, search string) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Client{})
	if search != "" {
		like := "%" + search + "%"
		db = db.Where("name ILIKE ? OR fiscal_id ILIKE ? OR phone ILIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}
