package repository

import (
	"context"

	"github.com/honeynil/CommodityDeskService/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	ListUnread(ctx context.Context, adminID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}
