package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/honeynil/CommodityDeskService/internal/models"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/shopspring/decimal"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return pkgerrors.ErrNilUser
	}
	if user.Username == "" || user.PasswordHash == "" {
		return fmt.Errorf("%w: username and password are required", pkgerrors.ErrInvalidInput)
	}
	if user.WalletBalance.IsNegative() {
		return fmt.Errorf("%w: wallet balance cannot be negative", pkgerrors.ErrInvalidInput)
	}

	defer r.s.lock(ctx)()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return pkgerrors.ErrUsernameExists
		}
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	user.ID = r.s.nextID()
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	defer r.s.lock(ctx)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, pkgerrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	defer r.s.lock(ctx)()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, pkgerrors.ErrUserNotFound
}

func (r *UserRepository) List(ctx context.Context, role *models.Role, ownerAdminID *int64) ([]models.User, error) {
	defer r.s.lock(ctx)()
	out := []models.User{}
	for _, u := range r.s.users {
		if role != nil && u.Role != *role {
			continue
		}
		if ownerAdminID != nil && (u.OwnerAdminID == nil || *u.OwnerAdminID != *ownerAdminID) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) CountByOwner(ctx context.Context, ownerAdminID int64) (int64, error) {
	defer r.s.lock(ctx)()
	var n int64
	for _, u := range r.s.users {
		if u.OwnerAdminID != nil && *u.OwnerAdminID == ownerAdminID {
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) (*models.User, error) {
	defer r.s.lock(ctx)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, pkgerrors.ErrUserNotFound
	}
	u.Status = status
	r.s.users[id] = u
	return &u, nil
}

func (r *UserRepository) ChangeBalance(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	defer r.s.lock(ctx)()
	u, ok := r.s.users[userID]
	if !ok {
		return decimal.Zero, pkgerrors.ErrUserNotFound
	}
	next := u.WalletBalance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, pkgerrors.ErrInsufficientFunds
	}
	u.WalletBalance = next
	r.s.users[userID] = u
	return next, nil
}

func (r *UserRepository) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	defer r.s.lock(ctx)()
	u, ok := r.s.users[userID]
	if !ok {
		return decimal.Zero, pkgerrors.ErrUserNotFound
	}
	return u.WalletBalance, nil
}
