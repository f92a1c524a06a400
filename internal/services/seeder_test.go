package service_test

import (
	"context"
	"testing"

	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/honeynil/CommodityDeskService/internal/repository/memory"
	service "github.com/honeynil/CommodityDeskService/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Seed(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := store.Users()
	hierarchy := service.NewRoleHierarchy(users)
	ledger := service.NewLedger(users, store.WalletLogs(), store, hierarchy, nil)
	directory := service.NewUserDirectory(users, ledger, hierarchy, store, nil)
	seeder := service.NewSeeder(users, store.Commodities(), directory)

	require.NoError(t, seeder.Seed(ctx))
	require.NoError(t, seeder.Seed(ctx))

	all, err := users.List(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)

	super, err := users.GetByUsername(ctx, "superadmin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, super.Role)

	admin, err := users.GetByUsername(ctx, "admin1")
	require.NoError(t, err)
	user, err := users.GetByUsername(ctx, "user1")
	require.NoError(t, err)
	require.NotNil(t, user.OwnerAdminID)
	assert.Equal(t, admin.ID, *user.OwnerAdminID)
	assert.True(t, user.WalletBalance.Equal(dec("10000")))

	commodities, err := store.Commodities().List(ctx)
	require.NoError(t, err)
	require.Len(t, commodities, 7)
	assert.Equal(t, "Gold", commodities[0].Name)
	assert.True(t, commodities[0].CurrentPrice.Equal(dec("2000")))
	assert.Equal(t, "Cotton", commodities[6].Name)
}
