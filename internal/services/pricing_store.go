package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/honeynil/CommodityDeskService/internal/infrastructure/kafka"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/observability"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/redis"
	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/honeynil/CommodityDeskService/internal/repository"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

const commodityCacheTTL = time.Minute

type PricingStore struct {
	commodities repository.CommodityRepository
	hierarchy   *RoleHierarchy
	cache       redis.RedisClient
	events      kafka.EventPublisher
}

// NewPricingStore builds the store. cache and events may be nil.
func NewPricingStore(commodities repository.CommodityRepository, hierarchy *RoleHierarchy, cache redis.RedisClient, events kafka.EventPublisher) *PricingStore {
	return &PricingStore{
		commodities: commodities,
		hierarchy:   hierarchy,
		cache:       cache,
		events:      events,
	}
}

func (s *PricingStore) GetPrice(ctx context.Context, commodityID int64) (*models.Commodity, error) {
	ctx, span := startSpan(ctx, "GetPrice")
	defer span.End()
	span.SetAttributes(attribute.Int64("commodity_id", commodityID))

	c, err := s.commodities.GetByID(ctx, commodityID)
	if err != nil {
		return nil, fail(span, err, "commodity lookup failed")
	}
	return c, nil
}

// LoadCommodities reads the commodities straight from storage, skipping the list cache.
func (s *PricingStore) LoadCommodities(ctx context.Context) ([]models.Commodity, error) {
	ctx, span := startSpan(ctx, "LoadCommodities")
	defer span.End()

	list, err := s.commodities.List(ctx)
	if err != nil {
		return nil, fail(span, err, "commodity list failed")
	}
	return list, nil
}

func (s *PricingStore) ListCommodities(ctx context.Context) ([]models.Commodity, error) {
	ctx, span := startSpan(ctx, "ListCommodities")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, redis.CommoditiesKey)
		switch {
		case err == nil:
			var list []models.Commodity
			if jsonErr := json.Unmarshal([]byte(cached), &list); jsonErr == nil {
				return list, nil
			}
			slog.Warn("dropping unreadable commodity cache", "method", "ListCommodities")
		case !stderrors.Is(err, redis.ErrKeyNotFound):
			slog.Error("failed to read commodity cache", "method", "ListCommodities", "error", err)
		}
	}

	list, err := s.commodities.List(ctx)
	if err != nil {
		return nil, fail(span, err, "commodity list failed")
	}

	if s.cache != nil {
		if raw, err := json.Marshal(list); err == nil {
			if err := s.cache.Set(ctx, redis.CommoditiesKey, string(raw), commodityCacheTTL); err != nil {
				slog.Error("failed to cache commodities", "method", "ListCommodities", "error", err)
			}
		}
	}
	return list, nil
}

// UpdatePrice moves currentPrice into previousPrice and stores newPrice in one step.
// It performs no authorization; callers acting for a person use UpdatePriceAs.
func (s *PricingStore) UpdatePrice(ctx context.Context, commodityID int64, newPrice decimal.Decimal) (*models.Commodity, error) {
	ctx, span := startSpan(ctx, "UpdatePrice")
	defer span.End()
	span.SetAttributes(attribute.Int64("commodity_id", commodityID), attribute.String("price", newPrice.String()))

	if !newPrice.IsPositive() {
		return nil, fail(span, pkgerrors.ErrInvalidPrice, "invalid price")
	}
	if !models.FitsMoneyScale(newPrice) {
		return nil, fail(span, pkgerrors.ErrTooManyDecimals, "invalid price")
	}

	c, err := s.commodities.UpdatePrice(ctx, commodityID, newPrice)
	if err != nil {
		return nil, fail(span, err, "price update failed")
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, redis.CommoditiesKey); err != nil {
			slog.Error("failed to invalidate commodity cache", "method", "UpdatePrice", "error", err)
		}
	}
	observability.CommodityPrice.WithLabelValues(c.Name).Set(c.CurrentPrice.InexactFloat64())
	publish(ctx, s.events, kafka.TopicPrices, c.ID, kafka.EventPriceUpdated, kafka.PriceUpdated{
		CommodityID:   c.ID,
		Name:          c.Name,
		CurrentPrice:  c.CurrentPrice,
		PreviousPrice: c.PreviousPrice,
	})
	return c, nil
}

func (s *PricingStore) UpdatePriceAs(ctx context.Context, actor models.Identity, commodityID int64, newPrice decimal.Decimal) (*models.Commodity, error) {
	if !s.hierarchy.CanUpdatePrices(actor) {
		slog.Warn("price update denied", "method", "UpdatePriceAs", "user_id", actor.UserID, "role", actor.Role)
		return nil, pkgerrors.ErrUnauthorized
	}
	if _, err := s.hierarchy.ActiveActor(ctx, actor); err != nil {
		slog.Warn("price update denied", "method", "UpdatePriceAs", "user_id", actor.UserID, "error", err)
		return nil, err
	}
	c, err := s.UpdatePrice(ctx, commodityID, newPrice)
	if err != nil {
		return nil, err
	}
	slog.Info("commodity price set", "method", "UpdatePriceAs", "commodity_id", commodityID, "price", c.CurrentPrice.String(), "user_id", actor.UserID)
	return c, nil
}
