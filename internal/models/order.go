package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderBuy  OrderType = "BUY"
	OrderSell OrderType = "SELL"
)

func ParseOrderType(s string) (OrderType, bool) {
	switch OrderType(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderBuy:
		return OrderBuy, true
	case OrderSell:
		return OrderSell, true
	}
	return "", false
}

type OrderStatus string

const (
	OrderPending  OrderStatus = "PENDING"
	OrderApproved OrderStatus = "APPROVED"
	OrderRejected OrderStatus = "REJECTED"
)

// ParseDecision maps the processing verbs the client sends ("approve", "approved",
// "reject", ...) to a terminal status.
func ParseDecision(s string) (OrderStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "APPROVE", "APPROVED":
		return OrderApproved, true
	case "REJECT", "REJECTED":
		return OrderRejected, true
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderApproved || s == OrderRejected
}

type Order struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	CommodityID  int64           `json:"commodityId"`
	Type         OrderType       `json:"type"`
	Quantity     int64           `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	ProcessedAt  *time.Time      `json:"processedAt"`
	ProcessedBy  *int64          `json:"processedBy"`
}

// SettlementDelta is the wallet change approving the order causes for its owner:
// a BUY debits the total, a SELL credits it.
func (o *Order) SettlementDelta() decimal.Decimal {
	if o.Type == OrderBuy {
		return o.TotalAmount.Neg()
	}
	return o.TotalAmount
}
