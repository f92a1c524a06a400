package memory

import (
	"context"
	"sort"

	"github.com/honeynil/CommodityDeskService/internal/models"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
)

type OrderRepository struct {
	s *Store
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	if o == nil {
		return pkgerrors.ErrNilOrder
	}
	if o.Type != models.OrderBuy && o.Type != models.OrderSell {
		return pkgerrors.ErrInvalidOrderType
	}
	if o.Quantity <= 0 {
		return pkgerrors.ErrInvalidQuantity
	}
	defer r.s.lock(ctx)()
	o.ID = r.s.nextID()
	o.CreatedAt = r.s.now()
	r.s.orders[o.ID] = *o
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	defer r.s.lock(ctx)()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, pkgerrors.ErrOrderNotFound
	}
	return &o, nil
}

// GetByIDForUpdate needs no extra locking: a unit of work already holds the store lock.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) List(ctx context.Context, userIDs []int64) ([]models.Order, error) {
	defer r.s.lock(ctx)()
	var allowed map[int64]struct{}
	if userIDs != nil {
		allowed = make(map[int64]struct{}, len(userIDs))
		for _, id := range userIDs {
			allowed[id] = struct{}{}
		}
	}
	out := []models.Order{}
	for _, o := range r.s.orders {
		if allowed != nil {
			if _, ok := allowed[o.UserID]; !ok {
				continue
			}
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *OrderRepository) MarkProcessed(ctx context.Context, o *models.Order, status models.OrderStatus, processorID int64) error {
	if !status.IsTerminal() {
		return pkgerrors.ErrInvalidDecision
	}
	defer r.s.lock(ctx)()
	stored, ok := r.s.orders[o.ID]
	if !ok {
		return pkgerrors.ErrOrderNotFound
	}
	if stored.Status != models.OrderPending {
		return pkgerrors.ErrOrderAlreadyProcessed
	}
	now := r.s.now()
	stored.Status = status
	stored.ProcessedAt = &now
	stored.ProcessedBy = &processorID
	r.s.orders[o.ID] = stored
	*o = stored
	return nil
}
