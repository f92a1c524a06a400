package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Commodity struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Unit               string          `json:"unit"`
	CurrentPrice       decimal.Decimal `json:"currentPrice"`
	PreviousPrice      decimal.Decimal `json:"previousPrice"`
	PriceChange        decimal.Decimal `json:"priceChange"`
	PriceChangePercent decimal.Decimal `json:"priceChangePercent"`
	LastUpdated        time.Time       `json:"lastUpdated"`
}

var hundred = decimal.NewFromInt(100)

// DeriveChange fills PriceChange and PriceChangePercent from the two stored prices.
// The percentage is 0 when there is no previous price.
func (c *Commodity) DeriveChange() {
	c.PriceChange = c.CurrentPrice.Sub(c.PreviousPrice)
	if c.PreviousPrice.IsZero() {
		c.PriceChangePercent = decimal.Zero
		return
	}
	c.PriceChangePercent = c.PriceChange.Div(c.PreviousPrice).Mul(hundred).Round(2)
}
