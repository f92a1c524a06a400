package worker

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/shopspring/decimal"
)

// PriceSource is the part of the pricing store the ticker drives. LoadCommodities must
// read storage, not the list cache, so every move starts from the stored price.
type PriceSource interface {
	LoadCommodities(ctx context.Context) ([]models.Commodity, error)
	UpdatePrice(ctx context.Context, commodityID int64, newPrice decimal.Decimal) (*models.Commodity, error)
}

var (
	maxSwing = decimal.RequireFromString("0.04")
	minPrice = decimal.RequireFromString("0.01")
	one      = decimal.NewFromInt(1)
	half     = decimal.RequireFromString("0.5")
)

// PriceTicker moves every commodity price by up to 2% in either direction on each tick.
type PriceTicker struct {
	prices   PriceSource
	interval time.Duration
	random   func() float64
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewPriceTicker(prices PriceSource, interval time.Duration) *PriceTicker {
	return &PriceTicker{
		prices:   prices,
		interval: interval,
		random:   rand.Float64,
		stopCh:   make(chan struct{}),
	}
}

// WithRandom replaces the [0,1) source used to pick each move.
func (t *PriceTicker) WithRandom(random func() float64) *PriceTicker {
	t.random = random
	return t
}

func (t *PriceTicker) Start(ctx context.Context) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.loop(ctx)
	}()
}

func (t *PriceTicker) Stop() {
	close(t.stopCh)
	t.wg.Wait()
}

func (t *PriceTicker) loop(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.Tick(ctx)
		case <-t.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Tick applies one round of moves and returns how many commodities were updated.
func (t *PriceTicker) Tick(ctx context.Context) int {
	list, err := t.prices.LoadCommodities(ctx)
	if err != nil {
		slog.Error("failed to list commodities", "method", "Tick", "error", err)
		return 0
	}

	updated := 0
	for _, c := range list {
		price := t.next(c.CurrentPrice)
		if _, err := t.prices.UpdatePrice(ctx, c.ID, price); err != nil {
			slog.Error("failed to move price", "method", "Tick", "commodity_id", c.ID, "error", err)
			continue
		}
		updated++
	}
	slog.Info("commodity prices ticked", "method", "Tick", "updated", updated, "total", len(list))
	return updated
}

// next returns current * (1 + (r-0.5)*0.04) rounded half-up to cents, never below 0.01.
func (t *PriceTicker) next(current decimal.Decimal) decimal.Decimal {
	change := decimal.NewFromFloat(t.random()).Sub(half).Mul(maxSwing)
	price := current.Mul(one.Add(change)).Round(2)
	if price.LessThan(minPrice) {
		return minPrice
	}
	return price
}
