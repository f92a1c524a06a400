package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/honeynil/CommodityDeskService/internal/infrastructure/kafka"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/redis"
	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/honeynil/CommodityDeskService/internal/repository/memory"
	service "github.com/honeynil/CommodityDeskService/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// mapCache is an in-process stand-in for Redis.
type mapCache map[string]string

func (m mapCache) Get(_ context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", redis.ErrKeyNotFound
	}
	return v, nil
}

func (m mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m[key] = value.(string)
	return nil
}

func (m mapCache) Del(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

func (m mapCache) Close() error { return nil }

type fixture struct {
	store     *memory.Store
	cache     mapCache
	hierarchy *service.RoleHierarchy
	pricing   *service.PricingStore
	ledger    *service.Ledger
	engine    *service.OrderEngine
	directory *service.UserDirectory

	super      *models.User
	admin      *models.User
	otherAdmin *models.User
	alice      *models.User
	bob        *models.User
	carol      *models.User
	gold       *models.Commodity
}

func identity(u *models.User) models.Identity {
	return models.Identity{UserID: u.ID, Role: u.Role}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	users := store.Users()

	f := &fixture{store: store, cache: mapCache{}}
	f.hierarchy = service.NewRoleHierarchy(users)
	consumer := kafka.NewConsumer(nil, "test", users, store.Notifications())
	events := kafka.NewLoopbackPublisher(consumer)
	f.pricing = service.NewPricingStore(store.Commodities(), f.hierarchy, f.cache, events)
	f.ledger = service.NewLedger(users, store.WalletLogs(), store, f.hierarchy, events)
	f.engine = service.NewOrderEngine(store.Orders(), users, f.pricing, f.ledger, f.hierarchy, store, events)
	f.directory = service.NewUserDirectory(users, f.ledger, f.hierarchy, store, f.cache)

	mk := func(username string, role models.Role, owner *models.User, balance int64) *models.User {
		u := &models.User{
			Username:      username,
			PasswordHash:  "x",
			Role:          role,
			WalletBalance: decimal.NewFromInt(balance),
		}
		if owner != nil {
			u.OwnerAdminID = &owner.ID
		}
		require.NoError(t, users.Create(ctx, u))
		return u
	}
	f.super = mk("superadmin", models.RoleSuperAdmin, nil, 0)
	f.admin = mk("admin1", models.RoleAdmin, nil, 0)
	f.otherAdmin = mk("admin2", models.RoleAdmin, nil, 0)
	f.alice = mk("alice", models.RoleUser, f.admin, 500)
	f.bob = mk("bob", models.RoleUser, f.admin, 50)
	f.carol = mk("carol", models.RoleUser, f.otherAdmin, 1000)

	f.gold = &models.Commodity{Name: "Gold", Unit: "oz", CurrentPrice: decimal.NewFromInt(100)}
	require.NoError(t, store.Commodities().Create(ctx, f.gold))
	return f
}

func (f *fixture) balance(t *testing.T, u *models.User) decimal.Decimal {
	t.Helper()
	b, err := f.ledger.GetBalance(context.Background(), u.ID)
	require.NoError(t, err)
	return b
}

func (f *fixture) place(t *testing.T, u *models.User, typ models.OrderType, qty int64) *models.Order {
	t.Helper()
	o, err := f.engine.PlaceOrder(context.Background(), identity(u), service.PlaceOrderRequest{
		UserID:      u.ID,
		CommodityID: f.gold.ID,
		Type:        typ,
		Quantity:    qty,
	})
	require.NoError(t, err)
	return o
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
