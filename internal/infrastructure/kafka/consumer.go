package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/honeynil/CommodityDeskService/internal/repository"
	"github.com/segmentio/kafka-go"
)

// Consumer turns order events into notifications for the admin who owns the ordering user.
type Consumer struct {
	reader           *kafka.Reader
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

func NewConsumer(brokers []string, groupID string, userRepo repository.UserRepository, notificationRepo repository.NotificationRepository) *Consumer {
	c := &Consumer{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
	if len(brokers) > 0 {
		c.reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    TopicOrders,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		})
	}
	return c
}

// Consume blocks until ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context) {
	if c.reader == nil {
		return
	}
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("failed to read Kafka message", "topic", TopicOrders, "error", err)
			continue
		}

		slog.Info("Kafka message received", "topic", msg.Topic, "key", string(msg.Key), "offset", msg.Offset)
		if err := c.HandleMessage(ctx, msg); err != nil {
			// TODO: route undecodable and failed messages to an orders.dlq topic
			slog.Error("failed to handle Kafka message", "topic", msg.Topic, "key", string(msg.Key), "error", err)
		}
	}
}

func (c *Consumer) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return c.HandleEvent(ctx, msg.Topic, event)
}

func (c *Consumer) HandleEvent(ctx context.Context, topic string, event Event) error {
	if topic != TopicOrders || event.Type != EventOrderPlaced {
		return nil
	}

	var placed OrderPlaced
	if err := json.Unmarshal(event.Payload, &placed); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", event.Type, err)
	}

	user, err := c.userRepo.GetByID(ctx, placed.UserID)
	if err != nil {
		return fmt.Errorf("failed to load order owner: %w", err)
	}
	if user.OwnerAdminID == nil {
		slog.Info("order owner has no admin, notification skipped", "order_id", placed.OrderID, "user_id", placed.UserID)
		return nil
	}

	n := &models.Notification{
		AdminID: *user.OwnerAdminID,
		OrderID: placed.OrderID,
		Message: fmt.Sprintf("New %s order #%d from %s: %d x %s (total %s)",
			placed.Type, placed.OrderID, user.Username, placed.Quantity, placed.Commodity, placed.TotalAmount.StringFixed(2)),
	}
	if err := c.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	slog.Info("notification created", "notification_id", n.ID, "admin_id", n.AdminID, "order_id", n.OrderID)
	return nil
}

func (c *Consumer) Close() error {
	if c.reader == nil {
		return nil
	}
	return c.reader.Close()
}
