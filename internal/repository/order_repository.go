package repository

import (
	"context"

	"github.com/honeynil/CommodityDeskService/internal/models"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	// GetByIDForUpdate locks the order row until the surrounding unit of work ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Order, error)
	// List returns all orders when userIDs is nil, otherwise the orders of those users.
	List(ctx context.Context, userIDs []int64) ([]models.Order, error)
	// MarkProcessed moves a PENDING order to a terminal status. It fails with
	// ErrOrderAlreadyProcessed when the order is no longer PENDING.
	MarkProcessed(ctx context.Context, order *models.Order, status models.OrderStatus, processorID int64) error
}
