package memory

import (
	"context"
	"sort"

	"github.com/honeynil/CommodityDeskService/internal/models"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
)

type NotificationRepository struct {
	s *Store
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	defer r.s.lock(ctx)()
	n.ID = r.s.nextID()
	n.CreatedAt = r.s.now()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	defer r.s.lock(ctx)()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, pkgerrors.ErrNotificationNotFound
	}
	return &n, nil
}

func (r *NotificationRepository) ListUnread(ctx context.Context, adminID int64) ([]models.Notification, error) {
	defer r.s.lock(ctx)()
	out := []models.Notification{}
	for _, n := range r.s.notifications {
		if n.AdminID == adminID && !n.Read {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()
	n, ok := r.s.notifications[id]
	if !ok {
		return pkgerrors.ErrNotificationNotFound
	}
	n.Read = true
	r.s.notifications[id] = n
	return nil
}
