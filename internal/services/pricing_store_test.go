package service_test

import (
	"context"
	"testing"

	"github.com/honeynil/CommodityDeskService/internal/infrastructure/redis"
	"github.com/honeynil/CommodityDeskService/internal/models"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingStore_UpdatePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.pricing.GetPrice(ctx, f.gold.ID)
	require.NoError(t, err)
	assert.True(t, before.PriceChangePercent.IsZero())

	updated, err := f.pricing.UpdatePriceAs(ctx, identity(f.admin), f.gold.ID, dec("110"))
	require.NoError(t, err)
	assert.True(t, updated.CurrentPrice.Equal(dec("110")))
	assert.True(t, updated.PreviousPrice.Equal(dec("100")))
	assert.True(t, updated.PriceChange.Equal(dec("10")))
	assert.True(t, updated.PriceChangePercent.Equal(dec("10")))
	assert.False(t, updated.LastUpdated.Before(before.LastUpdated))

	again, err := f.pricing.UpdatePrice(ctx, f.gold.ID, dec("99"))
	require.NoError(t, err)
	assert.True(t, again.PreviousPrice.Equal(dec("110")))
	assert.True(t, again.PriceChangePercent.Equal(dec("-10")))

	t.Run("NonPositive", func(t *testing.T) {
		_, err := f.pricing.UpdatePriceAs(ctx, identity(f.admin), f.gold.ID, dec("0"))
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidPrice)
		_, err = f.pricing.UpdatePriceAs(ctx, identity(f.admin), f.gold.ID, dec("-1"))
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidPrice)
	})

	t.Run("UnknownCommodity", func(t *testing.T) {
		_, err := f.pricing.UpdatePriceAs(ctx, identity(f.super), 9999, dec("1"))
		assert.ErrorIs(t, err, pkgerrors.ErrCommodityNotFound)
	})

	t.Run("UserDenied", func(t *testing.T) {
		_, err := f.pricing.UpdatePriceAs(ctx, identity(f.alice), f.gold.ID, dec("1"))
		assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
	})

	current, err := f.pricing.GetPrice(ctx, f.gold.ID)
	require.NoError(t, err)
	assert.True(t, current.CurrentPrice.Equal(dec("99")))
}

func TestPricingStore_ListCommoditiesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.pricing.ListCommodities(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, f.cache, redis.CommoditiesKey)

	silver := &models.Commodity{Name: "Silver", Unit: "oz", CurrentPrice: dec("25.50")}
	require.NoError(t, f.store.Commodities().Create(ctx, silver))

	cached, err := f.pricing.ListCommodities(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1, "served from cache")

	_, err = f.pricing.UpdatePrice(ctx, f.gold.ID, dec("101"))
	require.NoError(t, err)
	assert.NotContains(t, f.cache, redis.CommoditiesKey)

	fresh, err := f.pricing.ListCommodities(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.True(t, fresh[0].CurrentPrice.Equal(dec("101")))
	assert.Equal(t, "Silver", fresh[1].Name)
}

func TestPricingStore_RejectsExcessPrecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.pricing.UpdatePriceAs(ctx, identity(f.admin), f.gold.ID, dec("1.123456789"))
	assert.ErrorIs(t, err, pkgerrors.ErrTooManyDecimals)

	c, err := f.pricing.UpdatePrice(ctx, f.gold.ID, dec("1.1200"))
	require.NoError(t, err)
	assert.True(t, c.CurrentPrice.Equal(dec("1.12")))
}

func TestPricingStore_LoadCommoditiesSkipsCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.cache[redis.CommoditiesKey] = `[{"id":1,"name":"Gold","currentPrice":1}]`
	cached, err := f.pricing.ListCommodities(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.True(t, cached[0].CurrentPrice.Equal(dec("1")))

	fresh, err := f.pricing.LoadCommodities(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.True(t, fresh[0].CurrentPrice.Equal(dec("100")))
}
