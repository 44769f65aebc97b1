package service

import (
	"context"

	"github.com/neon-social/backend/internal/db"
	"github.com/neon-social/backend/internal/model"
)

type NotificationService struct {
	repo *db.Postgres
}

func NewNotificationService(repo *db.Postgres) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, userID int64, unreadOnly bool, page, pageSize int) (*model.PaginatedResponse[model.NotificationResponse], error) {
	items, total, err := s.repo.ListNotifications(ctx, userID, unreadOnly, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &model.PaginatedResponse[model.NotificationResponse]{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkNotificationRead(ctx, notificationID, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllNotificationsRead(ctx, userID)
}
