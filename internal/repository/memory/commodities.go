package memory

import (
	"context"
	"sort"

	"github.com/honeynil/CommodityDeskService/internal/models"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/shopspring/decimal"
)

type CommodityRepository struct {
	s *Store
}

func (r *CommodityRepository) Create(ctx context.Context, c *models.Commodity) error {
	if !c.CurrentPrice.IsPositive() {
		return pkgerrors.ErrInvalidPrice
	}
	defer r.s.lock(ctx)()
	c.ID = r.s.nextID()
	c.LastUpdated = r.s.now()
	c.DeriveChange()
	r.s.commodities[c.ID] = *c
	return nil
}

func (r *CommodityRepository) GetByID(ctx context.Context, id int64) (*models.Commodity, error) {
	defer r.s.lock(ctx)()
	c, ok := r.s.commodities[id]
	if !ok {
		return nil, pkgerrors.ErrCommodityNotFound
	}
	return &c, nil
}

func (r *CommodityRepository) List(ctx context.Context) ([]models.Commodity, error) {
	defer r.s.lock(ctx)()
	out := make([]models.Commodity, 0, len(r.s.commodities))
	for _, c := range r.s.commodities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CommodityRepository) Count(ctx context.Context) (int64, error) {
	defer r.s.lock(ctx)()
	return int64(len(r.s.commodities)), nil
}

func (r *CommodityRepository) UpdatePrice(ctx context.Context, id int64, newPrice decimal.Decimal) (*models.Commodity, error) {
	if !newPrice.IsPositive() {
		return nil, pkgerrors.ErrInvalidPrice
	}
	defer r.s.lock(ctx)()
	c, ok := r.s.commodities[id]
	if !ok {
		return nil, pkgerrors.ErrCommodityNotFound
	}
	c.PreviousPrice = c.CurrentPrice
	c.CurrentPrice = newPrice
	c.LastUpdated = r.s.now()
	c.DeriveChange()
	r.s.commodities[id] = c
	return &c, nil
}
