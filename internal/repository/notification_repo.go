package repository

import (
	"context"

	"barangay/internal/model"

	"gorm.io/gorm"
)

// NotificationRepository defines data access for notifications. Records are
// append-only; the only update path is MarkRead.
type NotificationRepository interface {
	Create(ctx context.Context, notif *model.Notification) error
	FindByID(ctx context.Context, id uint) (*model.Notification, error)
	List(ctx context.Context, userID *uint, page, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, id uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notif *model.Notification) error {
	return GetDB(ctx, r.db).Create(notif).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id uint) (*model.Notification, error) {
	var notif model.Notification
	if err := GetDB(ctx, r.db).First(&notif, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notif, nil
}

func (r *notificationRepository) List(ctx context.Context, userID *uint, page, limit int) ([]model.Notification, int64, error) {
	db := GetDB(ctx, r.db)
	query := db.Model(&model.Notification{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Order("created_at DESC").Offset(offset).Limit(limit)
	if userID != nil {
		fetch = fetch.Where("user_id = ?", *userID)
	}
	var notifs []model.Notification
	if err := fetch.Find(&notifs).Error; err != nil {
		return nil, 0, err
	}

	return notifs, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}
