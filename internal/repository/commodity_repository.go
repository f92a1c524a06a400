package repository

import (
	"context"

	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/shopspring/decimal"
)

type CommodityRepository interface {
	Create(ctx context.Context, commodity *models.Commodity) error
	GetByID(ctx context.Context, id int64) (*models.Commodity, error)
	List(ctx context.Context) ([]models.Commodity, error)
	Count(ctx context.Context) (int64, error)
	// UpdatePrice shifts current_price into previous_price and stores newPrice in one step.
	UpdatePrice(ctx context.Context, id int64, newPrice decimal.Decimal) (*models.Commodity, error)
}
