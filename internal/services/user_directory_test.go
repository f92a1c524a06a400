package service_test

import (
	"context"
	"testing"

	"github.com/honeynil/CommodityDeskService/internal/infrastructure/redis"
	"github.com/honeynil/CommodityDeskService/internal/models"
	service "github.com/honeynil/CommodityDeskService/internal/services"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserDirectory_CreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("AdminOwnsCreatedUser", func(t *testing.T) {
		u, err := f.directory.CreateUser(ctx, identity(f.admin), nil, service.CreateAccountRequest{
			Username:       "dave",
			Password:       "secret",
			Name:           "Dave",
			InitialBalance: dec("750"),
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, u.Role)
		require.NotNil(t, u.OwnerAdminID)
		assert.Equal(t, f.admin.ID, *u.OwnerAdminID)
		assert.True(t, u.WalletBalance.Equal(dec("750")))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret")))

		logs, err := f.ledger.Logs(ctx, identity(f.admin), u.ID)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "Initial balance", logs[0].Remarks)
	})

	t.Run("AdminForOtherAdmin", func(t *testing.T) {
		_, err := f.directory.CreateUser(ctx, identity(f.admin), &f.otherAdmin.ID, service.CreateAccountRequest{Username: "eve", Password: "p"})
		assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
	})

	t.Run("SuperAdminWithoutOwner", func(t *testing.T) {
		u, err := f.directory.CreateUser(ctx, identity(f.super), nil, service.CreateAccountRequest{Username: "frank", Password: "p"})
		require.NoError(t, err)
		assert.Nil(t, u.OwnerAdminID)
		assert.True(t, u.WalletBalance.IsZero())
	})

	t.Run("SuperAdminOwnerMustBeAdmin", func(t *testing.T) {
		_, err := f.directory.CreateUser(ctx, identity(f.super), &f.alice.ID, service.CreateAccountRequest{Username: "gina", Password: "p"})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})

	t.Run("UserCannotCreate", func(t *testing.T) {
		_, err := f.directory.CreateUser(ctx, identity(f.alice), nil, service.CreateAccountRequest{Username: "hank", Password: "p"})
		assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
	})

	t.Run("NegativeBalance", func(t *testing.T) {
		_, err := f.directory.CreateUser(ctx, identity(f.admin), nil, service.CreateAccountRequest{Username: "ivan", Password: "p", InitialBalance: dec("-1")})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		_, err := f.directory.CreateUser(ctx, identity(f.admin), nil, service.CreateAccountRequest{Username: "alice", Password: "p"})
		assert.ErrorIs(t, err, pkgerrors.ErrUsernameExists)
	})
}

func TestUserDirectory_Admins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.directory.CreateAdmin(ctx, identity(f.super), service.CreateAccountRequest{Username: "admin3", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Nil(t, admin.OwnerAdminID)

	_, err = f.directory.CreateAdmin(ctx, identity(f.admin), service.CreateAccountRequest{Username: "admin4", Password: "p"})
	assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)

	admins, err := f.directory.ListAdmins(ctx, identity(f.super))
	require.NoError(t, err)
	assert.Len(t, admins, 3)
	_, err = f.directory.ListAdmins(ctx, identity(f.admin))
	assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)

	details, err := f.directory.AdminDetails(ctx, identity(f.super), f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), details.UserCount)
	assert.Equal(t, "admin1", details.Admin.Username)

	_, err = f.directory.AdminDetails(ctx, identity(f.super), f.alice.ID)
	assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
}

func TestUserDirectory_Listing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	users, err := f.directory.ListUsersOfAdmin(ctx, identity(f.admin), f.admin.ID)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = f.directory.ListUsersOfAdmin(ctx, identity(f.admin), f.otherAdmin.ID)
	assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)

	foreign, err := f.directory.ListUsersOfAdmin(ctx, identity(f.super), f.otherAdmin.ID)
	require.NoError(t, err)
	require.Len(t, foreign, 1)
	assert.Equal(t, "carol", foreign[0].Username)

	_, err = f.directory.ListUsers(ctx, identity(f.alice))
	assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)

	me, err := f.directory.Me(ctx, identity(f.alice))
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestUserDirectory_SetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.directory.SetStatus(ctx, identity(f.admin), f.alice.ID, models.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, u.Status)

	u, err = f.directory.SetStatus(ctx, identity(f.super), f.alice.ID, models.StatusActive)
	require.NoError(t, err)
	assert.True(t, u.IsActive())

	_, err = f.directory.SetStatus(ctx, identity(f.otherAdmin), f.alice.ID, models.StatusInactive)
	assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)

	_, err = f.directory.SetStatus(ctx, identity(f.alice), f.alice.ID, models.StatusInactive)
	assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)

	_, err = f.directory.SetStatus(ctx, identity(f.super), 9999, models.StatusInactive)
	assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)

	_, err = f.directory.SetStatus(ctx, identity(f.super), f.alice.ID, "BANNED")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidStatus)
}

func TestUserDirectory_DeactivatedStaffCannotAct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending := f.place(t, f.bob, models.OrderBuy, 1)
	f.cache[redis.TokenKey(f.admin.ID)] = "admin-token"

	_, err := f.directory.SetStatus(ctx, identity(f.super), f.admin.ID, models.StatusInactive)
	require.NoError(t, err)
	assert.NotContains(t, f.cache, redis.TokenKey(f.admin.ID), "session ended")

	_, err = f.engine.ProcessOrder(ctx, identity(f.admin), pending.ID, models.OrderApproved)
	assert.ErrorIs(t, err, pkgerrors.ErrUserInactive)
	order, err := f.store.Orders().GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)

	_, err = f.ledger.Adjust(ctx, identity(f.admin), f.bob.ID, dec("10"), models.OperationSubtract)
	assert.ErrorIs(t, err, pkgerrors.ErrUserInactive)
	assert.True(t, f.balance(t, f.bob).Equal(dec("50")))

	_, err = f.directory.SetStatus(ctx, identity(f.admin), f.alice.ID, models.StatusInactive)
	assert.ErrorIs(t, err, pkgerrors.ErrUserInactive)

	_, err = f.pricing.UpdatePriceAs(ctx, identity(f.admin), f.gold.ID, dec("1"))
	assert.ErrorIs(t, err, pkgerrors.ErrUserInactive)

	_, err = f.directory.CreateUser(ctx, identity(f.admin), nil, service.CreateAccountRequest{Username: "dave", Password: "secret1"})
	assert.ErrorIs(t, err, pkgerrors.ErrUserInactive)

	_, err = f.directory.SetStatus(ctx, identity(f.super), f.admin.ID, models.StatusActive)
	require.NoError(t, err)
	processed, err := f.engine.ProcessOrder(ctx, identity(f.admin), pending.ID, models.OrderRejected)
	require.NoError(t, err)
	assert.Equal(t, models.OrderRejected, processed.Status)
}
