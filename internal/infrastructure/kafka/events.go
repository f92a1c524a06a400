package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TopicOrders  = "orders"
	TopicPrices  = "prices"
	TopicWallets = "wallets"
)

const (
	EventOrderPlaced    = "order.placed"
	EventOrderProcessed = "order.processed"
	EventPriceUpdated   = "price.updated"
	EventWalletUpdated  = "wallet.updated"
)

// Event is the envelope written to every topic.
type Event struct {
	ID         string          `json:"event_id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type OrderPlaced struct {
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	Username    string          `json:"username"`
	CommodityID int64           `json:"commodity_id"`
	Commodity   string          `json:"commodity"`
	Type        string          `json:"type"`
	Quantity    int64           `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type OrderProcessed struct {
	OrderID     int64  `json:"order_id"`
	UserID      int64  `json:"user_id"`
	Status      string `json:"status"`
	ProcessedBy int64  `json:"processed_by"`
}

type PriceUpdated struct {
	CommodityID   int64           `json:"commodity_id"`
	Name          string          `json:"name"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
}

type WalletUpdated struct {
	UserID       int64           `json:"user_id"`
	ChangeAmount decimal.Decimal `json:"change_amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Remarks      string          `json:"remarks"`
}

// EventPublisher is what the services use to emit domain events.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key int64, eventType string, payload any) error
}

func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}

// Publisher wraps a KafkaProducer with the event envelope.
type Publisher struct {
	producer KafkaProducer
}

func NewPublisher(producer KafkaProducer) *Publisher {
	return &Publisher{producer: producer}
}

func (p *Publisher) Publish(ctx context.Context, topic string, key int64, eventType string, payload any) error {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.producer.Send(ctx, topic, key, value)
}

// EventHandler consumes decoded events.
type EventHandler interface {
	HandleEvent(ctx context.Context, topic string, event Event) error
}

// LoopbackPublisher hands events straight to a handler in-process. It stands in for the
// broker when no KAFKA_BROKER is configured.
type LoopbackPublisher struct {
	handler EventHandler
}

func NewLoopbackPublisher(handler EventHandler) *LoopbackPublisher {
	return &LoopbackPublisher{handler: handler}
}

func (p *LoopbackPublisher) Publish(ctx context.Context, topic string, key int64, eventType string, payload any) error {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}
	if err := p.handler.HandleEvent(ctx, topic, event); err != nil {
		slog.Error("failed to handle loopback event", "topic", topic, "type", eventType, "key", key, "error", err)
		return err
	}
	return nil
}
