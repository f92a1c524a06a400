package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/honeynil/CommodityDeskService/internal/infrastructure/redis"
	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/honeynil/CommodityDeskService/internal/repository"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

type CreateAccountRequest struct {
	Username       string
	Password       string
	Name           string
	Email          string
	Mobile         string
	InitialBalance decimal.Decimal
}

type UserDirectory struct {
	users     repository.UserRepository
	ledger    *Ledger
	hierarchy *RoleHierarchy
	tx        repository.TxManager
	sessions  redis.RedisClient
}

// NewUserDirectory builds the directory. sessions may be nil; when set, deactivating an
// account also ends its session.
func NewUserDirectory(users repository.UserRepository, ledger *Ledger, hierarchy *RoleHierarchy, tx repository.TxManager, sessions redis.RedisClient) *UserDirectory {
	return &UserDirectory{
		users:     users,
		ledger:    ledger,
		hierarchy: hierarchy,
		tx:        tx,
		sessions:  sessions,
	}
}

func (d *UserDirectory) CreateAdmin(ctx context.Context, actor models.Identity, req CreateAccountRequest) (*models.User, error) {
	ctx, span := startSpan(ctx, "CreateAdmin")
	defer span.End()

	if !d.hierarchy.IsSuperAdmin(actor) {
		return nil, fail(span, pkgerrors.ErrUnauthorized, "not allowed")
	}
	if _, err := d.hierarchy.ActiveActor(ctx, actor); err != nil {
		return nil, fail(span, err, "not allowed")
	}
	user, err := d.create(ctx, req, models.RoleAdmin, nil)
	if err != nil {
		return nil, fail(span, err, "admin creation failed")
	}
	return user, nil
}

// CreateUser creates a USER. A super-admin may pick any admin as owner or none; an admin
// always becomes the owner itself.
func (d *UserDirectory) CreateUser(ctx context.Context, actor models.Identity, ownerAdminID *int64, req CreateAccountRequest) (*models.User, error) {
	ctx, span := startSpan(ctx, "CreateUser")
	defer span.End()

	switch actor.Role {
	case models.RoleSuperAdmin:
		if ownerAdminID != nil {
			owner, err := d.users.GetByID(ctx, *ownerAdminID)
			if err != nil {
				return nil, fail(span, err, "owner lookup failed")
			}
			if owner.Role != models.RoleAdmin {
				return nil, fail(span, fmt.Errorf("%w: owner must be an admin", pkgerrors.ErrInvalidInput), "owner is not an admin")
			}
		}
	case models.RoleAdmin:
		if ownerAdminID != nil && *ownerAdminID != actor.UserID {
			return nil, fail(span, pkgerrors.ErrUnauthorized, "not allowed")
		}
		id := actor.UserID
		ownerAdminID = &id
	default:
		return nil, fail(span, pkgerrors.ErrUnauthorized, "not allowed")
	}
	if _, err := d.hierarchy.ActiveActor(ctx, actor); err != nil {
		return nil, fail(span, err, "not allowed")
	}

	user, err := d.create(ctx, req, models.RoleUser, ownerAdminID)
	if err != nil {
		return nil, fail(span, err, "user creation failed")
	}
	return user, nil
}

// create stores the account with a zero balance and funds it through the ledger so the
// opening balance is logged like any other change.
func (d *UserDirectory) create(ctx context.Context, req CreateAccountRequest, role models.Role, ownerAdminID *int64) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", pkgerrors.ErrInvalidInput)
	}
	if req.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", pkgerrors.ErrInvalidInput)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "method", "create", "username", req.Username, "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Role:         role,
		OwnerAdminID: ownerAdminID,
		Status:       models.StatusActive,
	}
	err = d.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := d.users.Create(ctx, user); err != nil {
			return err
		}
		if req.InitialBalance.IsPositive() {
			balance, err := d.ledger.ApplyDelta(ctx, user.ID, req.InitialBalance, "Initial balance")
			if err != nil {
				return err
			}
			user.WalletBalance = balance
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("account created", "method", "create", "user_id", user.ID, "role", role, "owner_admin_id", ownerAdminID)
	return user, nil
}

func (d *UserDirectory) ListUsers(ctx context.Context, actor models.Identity) ([]models.User, error) {
	ctx, span := startSpan(ctx, "ListUsers")
	defer span.End()

	if !d.hierarchy.IsStaff(actor) {
		return nil, fail(span, pkgerrors.ErrUnauthorized, "not allowed")
	}
	users, err := d.hierarchy.VisibleUsers(ctx, actor)
	if err != nil {
		return nil, fail(span, err, "user list failed")
	}
	return users, nil
}

func (d *UserDirectory) ListUsersOfAdmin(ctx context.Context, actor models.Identity, adminID int64) ([]models.User, error) {
	ctx, span := startSpan(ctx, "ListUsersOfAdmin")
	defer span.End()
	span.SetAttributes(attribute.Int64("admin_id", adminID))

	switch {
	case actor.Role == models.RoleSuperAdmin:
	case actor.Role == models.RoleAdmin && actor.UserID == adminID:
	default:
		return nil, fail(span, pkgerrors.ErrUnauthorized, "not allowed")
	}

	role := models.RoleUser
	users, err := d.users.List(ctx, &role, &adminID)
	if err != nil {
		return nil, fail(span, err, "user list failed")
	}
	return users, nil
}

func (d *UserDirectory) ListAdmins(ctx context.Context, actor models.Identity) ([]models.User, error) {
	ctx, span := startSpan(ctx, "ListAdmins")
	defer span.End()

	if !d.hierarchy.IsSuperAdmin(actor) {
		return nil, fail(span, pkgerrors.ErrUnauthorized, "not allowed")
	}
	role := models.RoleAdmin
	admins, err := d.users.List(ctx, &role, nil)
	if err != nil {
		return nil, fail(span, err, "admin list failed")
	}
	return admins, nil
}

func (d *UserDirectory) AdminDetails(ctx context.Context, actor models.Identity, adminID int64) (*models.AdminDetails, error) {
	ctx, span := startSpan(ctx, "AdminDetails")
	defer span.End()
	span.SetAttributes(attribute.Int64("admin_id", adminID))

	if !d.hierarchy.IsSuperAdmin(actor) {
		return nil, fail(span, pkgerrors.ErrUnauthorized, "not allowed")
	}
	admin, err := d.users.GetByID(ctx, adminID)
	if err != nil {
		return nil, fail(span, err, "admin lookup failed")
	}
	if admin.Role != models.RoleAdmin {
		return nil, fail(span, pkgerrors.ErrUserNotFound, "not an admin")
	}
	count, err := d.users.CountByOwner(ctx, adminID)
	if err != nil {
		return nil, fail(span, err, "user count failed")
	}
	return &models.AdminDetails{Admin: admin, UserCount: count}, nil
}

func (d *UserDirectory) SetStatus(ctx context.Context, actor models.Identity, userID int64, status models.UserStatus) (*models.User, error) {
	ctx, span := startSpan(ctx, "SetUserStatus")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.String("status", string(status)))

	if _, ok := models.ParseUserStatus(string(status)); !ok {
		return nil, fail(span, pkgerrors.ErrInvalidStatus, "invalid status")
	}
	if _, err := d.hierarchy.ManagedUser(ctx, actor, userID); err != nil {
		slog.Warn("status change denied", "method", "SetStatus", "actor_id", actor.UserID, "user_id", userID, "error", err)
		return nil, fail(span, err, "not allowed")
	}

	user, err := d.users.UpdateStatus(ctx, userID, status)
	if err != nil {
		return nil, fail(span, err, "status update failed")
	}
	if status == models.StatusInactive && d.sessions != nil {
		if err := d.sessions.Del(ctx, redis.TokenKey(userID)); err != nil {
			slog.Error("failed to end session of deactivated user", "method", "SetStatus", "user_id", userID, "error", err)
		}
	}
	slog.Info("user status changed", "method", "SetStatus", "user_id", userID, "status", status, "actor_id", actor.UserID)
	return user, nil
}

func (d *UserDirectory) Me(ctx context.Context, actor models.Identity) (*models.User, error) {
	return d.users.GetByID(ctx, actor.UserID)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
