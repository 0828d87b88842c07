package service

import (
	"context"
	"errors"

	"barangay/internal/model"
	"barangay/internal/repository"
	"barangay/pkg/apperr"

	"gorm.io/gorm"
)

type NotificationResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	IsRead    bool   `json:"is_read"`
	UserID    *uint  `json:"user_id"`
	CreatedAt string `json:"created_at"`
}

type NotificationService interface {
	ListNotifications(ctx context.Context, userID *uint, page, limit int) ([]NotificationResponse, int64, error)
	MarkRead(ctx context.Context, id uint) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID *uint, page, limit int) ([]NotificationResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	notifs, total, err := s.repo.List(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.CodeStorage, "failed to fetch notifications")
	}

	result := make([]NotificationResponse, 0, len(notifs))
	for _, n := range notifs {
		result = append(result, toNotificationResponse(n))
	}
	return result, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeNotFound, "Notification not found")
		}
		return apperr.Wrap(err, apperr.CodeStorage, "database error")
	}

	if err := s.repo.MarkRead(ctx, id); err != nil {
		return apperr.Wrap(err, apperr.CodeStorage, "failed to mark notification as read")
	}
	return nil
}

func toNotificationResponse(n model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		UserID:    n.UserID,
		CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
