package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/honeynil/CommodityDeskService/internal/repository"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
)

// RoleHierarchy is the only place that compares roles. Every other service asks it.
type RoleHierarchy struct {
	users repository.UserRepository
}

func NewRoleHierarchy(users repository.UserRepository) *RoleHierarchy {
	return &RoleHierarchy{users: users}
}

// CanManage reports whether actor may act on target. A super-admin manages every admin and
// user, an admin manages the users it owns, and a user manages only itself.
func (h *RoleHierarchy) CanManage(actor models.Identity, target *models.User) bool {
	if target == nil {
		return false
	}
	switch actor.Role {
	case models.RoleSuperAdmin:
		return target.Role == models.RoleAdmin || target.Role == models.RoleUser
	case models.RoleAdmin:
		return target.Role == models.RoleUser && target.OwnerAdminID != nil && *target.OwnerAdminID == actor.UserID
	case models.RoleUser:
		return target.ID == actor.UserID
	}
	return false
}

// IsStaff reports whether actor is an admin or a super-admin.
func (h *RoleHierarchy) IsStaff(actor models.Identity) bool {
	switch actor.Role {
	case models.RoleSuperAdmin, models.RoleAdmin:
		return true
	}
	return false
}

func (h *RoleHierarchy) IsSuperAdmin(actor models.Identity) bool {
	return actor.Role == models.RoleSuperAdmin
}

func (h *RoleHierarchy) CanUpdatePrices(actor models.Identity) bool {
	return h.IsStaff(actor)
}

// CanPlaceOrder allows a user to place orders for itself only.
func (h *RoleHierarchy) CanPlaceOrder(actor models.Identity, userID int64) bool {
	return actor.Role == models.RoleUser && actor.UserID == userID
}

// ActiveActor loads the account behind actor. A deactivated account keeps its identity
// claim but may no longer act.
func (h *RoleHierarchy) ActiveActor(ctx context.Context, actor models.Identity) (*models.User, error) {
	u, err := h.users.GetByID(ctx, actor.UserID)
	if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
		return nil, pkgerrors.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return nil, pkgerrors.ErrUserInactive
	}
	return u, nil
}

// ManagedUser loads the target and checks that actor is an active staff member managing it.
func (h *RoleHierarchy) ManagedUser(ctx context.Context, actor models.Identity, userID int64) (*models.User, error) {
	if !h.IsStaff(actor) {
		return nil, pkgerrors.ErrUnauthorized
	}
	if _, err := h.ActiveActor(ctx, actor); err != nil {
		return nil, err
	}
	target, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !h.CanManage(actor, target) {
		return nil, pkgerrors.ErrUnauthorized
	}
	return target, nil
}

func (h *RoleHierarchy) VisibleUsers(ctx context.Context, actor models.Identity) ([]models.User, error) {
	switch actor.Role {
	case models.RoleSuperAdmin:
		all, err := h.users.List(ctx, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		visible := make([]models.User, 0, len(all))
		for _, u := range all {
			if u.Role != models.RoleSuperAdmin {
				visible = append(visible, u)
			}
		}
		return visible, nil
	case models.RoleAdmin:
		role := models.RoleUser
		return h.users.List(ctx, &role, &actor.UserID)
	}
	return []models.User{}, nil
}

func (h *RoleHierarchy) CanProcessOrder(ctx context.Context, actor models.Identity, order *models.Order) (bool, error) {
	if h.IsStaff(actor) {
		if _, err := h.ActiveActor(ctx, actor); err != nil {
			return false, err
		}
	}
	switch actor.Role {
	case models.RoleSuperAdmin:
		return true, nil
	case models.RoleAdmin:
		owner, err := h.users.GetByID(ctx, order.UserID)
		if err != nil {
			return false, err
		}
		return h.CanManage(actor, owner), nil
	}
	return false, nil
}

// CanViewOrder is true for the order owner and for anyone allowed to process it.
func (h *RoleHierarchy) CanViewOrder(ctx context.Context, actor models.Identity, order *models.Order) (bool, error) {
	if actor.Role == models.RoleUser {
		return order.UserID == actor.UserID, nil
	}
	return h.CanProcessOrder(ctx, actor, order)
}

// VisibleOrderOwners returns the user ids whose orders actor may list. A nil slice means
// every user.
func (h *RoleHierarchy) VisibleOrderOwners(ctx context.Context, actor models.Identity) ([]int64, error) {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return nil, nil
	case models.RoleAdmin:
		users, err := h.VisibleUsers(ctx, actor)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		return ids, nil
	case models.RoleUser:
		return []int64{actor.UserID}, nil
	}
	return []int64{}, nil
}
