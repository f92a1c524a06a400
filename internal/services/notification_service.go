package service

import (
	"context"
	"log/slog"

	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/honeynil/CommodityDeskService/internal/repository"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
)

type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func canReadInbox(actor models.Identity, adminID int64) bool {
	return actor.Role == models.RoleSuperAdmin || (actor.Role == models.RoleAdmin && actor.UserID == adminID)
}

func (s *NotificationService) ListUnread(ctx context.Context, actor models.Identity, adminID int64) ([]models.Notification, error) {
	if !canReadInbox(actor, adminID) {
		return nil, pkgerrors.ErrUnauthorized
	}
	return s.notifications.ListUnread(ctx, adminID)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor models.Identity, id int64) error {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canReadInbox(actor, n.AdminID) {
		return pkgerrors.ErrUnauthorized
	}
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return err
	}
	slog.Info("notification read", "method", "MarkRead", "notification_id", id, "admin_id", n.AdminID)
	return nil
}
