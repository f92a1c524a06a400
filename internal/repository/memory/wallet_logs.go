package memory

import (
	"context"

	"github.com/honeynil/CommodityDeskService/internal/models"
)

type WalletLogRepository struct {
	s *Store
}

func (r *WalletLogRepository) Create(ctx context.Context, entry *models.WalletLog) error {
	defer r.s.lock(ctx)()
	entry.ID = r.s.nextID()
	entry.CreatedAt = r.s.now()
	r.s.walletLogs = append(r.s.walletLogs, *entry)
	return nil
}

// ListByUser returns the newest entries first.
func (r *WalletLogRepository) ListByUser(ctx context.Context, userID int64) ([]models.WalletLog, error) {
	defer r.s.lock(ctx)()
	out := []models.WalletLog{}
	for i := len(r.s.walletLogs) - 1; i >= 0; i-- {
		if r.s.walletLogs[i].UserID == userID {
			out = append(out, r.s.walletLogs[i])
		}
	}
	return out, nil
}
