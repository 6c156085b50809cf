package repository

import (
	"context"

	"repairshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, filter NotificationFilter, page, limit int) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, audience model.Audience, clientID *uuid.UUID) (int64, error)
	// MarkRead flags one notification, scoped so a client can only touch its own.
	MarkRead(ctx context.Context, id uuid.UUID, audience model.Audience, clientID *uuid.UUID) error
	MarkAllRead(ctx context.Context, audience model.Audience, clientID *uuid.UUID) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return GetDB(ctx, r.db).Create(n).Error
}

func scopeAudience(db *gorm.DB, audience model.Audience, clientID *uuid.UUID) *gorm.DB {
	db = db.Where("audience = ?", audience)
	if clientID != nil {
		db = db.Where("client_id = ?", *clientID)
	}
	return db
}

func (r *notificationRepository) List(ctx context.Context, filter NotificationFilter, page, limit int) ([]model.Notification, int64, error) {
	var items []model.Notification
	var total int64

	db := scopeAudience(GetDB(ctx, r.db).Model(&model.Notification{}), filter.Audience, filter.ClientID)
	if filter.UnreadOnly {
		db = db.Where("read = ?", false)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, audience model.Audience, clientID *uuid.UUID) (int64, error) {
	var count int64
	db := scopeAudience(GetDB(ctx, r.db).Model(&model.Notification{}), audience, clientID)
	if err := db.Where("read = ?", false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, audience model.Audience, clientID *uuid.UUID) error {
	res := scopeAudience(GetDB(ctx, r.db).Model(&model.Notification{}), audience, clientID).
		Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, audience model.Audience, clientID *uuid.UUID) error {
	db := scopeAudience(GetDB(ctx, r.db).Model(&model.Notification{}), audience, clientID)
	return db.Where("read = ?", false).Update("read", true).Error
}
