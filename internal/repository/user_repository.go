package repository

import (
	"context"

	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// List returns users filtered by role and owner; nil filters match everything.
	List(ctx context.Context, role *models.Role, ownerAdminID *int64) ([]models.User, error)
	CountByOwner(ctx context.Context, ownerAdminID int64) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.UserStatus) (*models.User, error)
	// ChangeBalance is the only writer of wallet_balance. It never lets the balance go
	// below zero and returns the committed balance.
	ChangeBalance(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error)
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
}
