package repository

import (
	"context"

	"github.com/honeynil/CommodityDeskService/internal/models"
)

type WalletLogRepository interface {
	Create(ctx context.Context, entry *models.WalletLog) error
	ListByUser(ctx context.Context, userID int64) ([]models.WalletLog, error)
}
