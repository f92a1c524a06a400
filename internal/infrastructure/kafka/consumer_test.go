package kafka_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/honeynil/CommodityDeskService/internal/infrastructure/kafka"
	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/honeynil/CommodityDeskService/internal/repository/memory"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderPlacedMessage(t *testing.T, payload kafka.OrderPlaced) kafkago.Message {
	t.Helper()
	event, err := kafka.NewEvent(kafka.EventOrderPlaced, payload)
	require.NoError(t, err)
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafkago.Message{Topic: kafka.TopicOrders, Value: value}
}

func TestConsumer_HandleMessage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := store.Users()
	notifications := store.Notifications()

	admin := &models.User{Username: "admin1", PasswordHash: "h", Role: models.RoleAdmin}
	require.NoError(t, users.Create(ctx, admin))
	owned := &models.User{Username: "user1", PasswordHash: "h", Role: models.RoleUser, OwnerAdminID: &admin.ID}
	require.NoError(t, users.Create(ctx, owned))
	orphan := &models.User{Username: "user2", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, users.Create(ctx, orphan))

	consumer := kafka.NewConsumer(nil, "test", users, notifications)

	t.Run("CreatesNotificationForOwner", func(t *testing.T) {
		msg := orderPlacedMessage(t, kafka.OrderPlaced{
			OrderID:     7,
			UserID:      owned.ID,
			Commodity:   "Gold",
			Type:        "BUY",
			Quantity:    3,
			TotalAmount: decimal.NewFromInt(6000),
		})
		require.NoError(t, consumer.HandleMessage(ctx, msg))

		list, err := notifications.ListUnread(ctx, admin.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(7), list[0].OrderID)
		assert.Equal(t, "New BUY order #7 from user1: 3 x Gold (total 6000.00)", list[0].Message)
		assert.False(t, list[0].Read)
	})

	t.Run("SkipsUserWithoutAdmin", func(t *testing.T) {
		msg := orderPlacedMessage(t, kafka.OrderPlaced{OrderID: 8, UserID: orphan.ID, Type: "SELL", Quantity: 1})
		require.NoError(t, consumer.HandleMessage(ctx, msg))

		list, err := notifications.ListUnread(ctx, admin.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("IgnoresOtherEvents", func(t *testing.T) {
		event, err := kafka.NewEvent(kafka.EventOrderProcessed, kafka.OrderProcessed{OrderID: 7})
		require.NoError(t, err)
		value, err := json.Marshal(event)
		require.NoError(t, err)
		assert.NoError(t, consumer.HandleMessage(ctx, kafkago.Message{Topic: kafka.TopicOrders, Value: value}))
	})

	t.Run("MalformedMessage", func(t *testing.T) {
		err := consumer.HandleMessage(ctx, kafkago.Message{Topic: kafka.TopicOrders, Value: []byte("{")})
		assert.Error(t, err)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		msg := orderPlacedMessage(t, kafka.OrderPlaced{OrderID: 9, UserID: 999})
		assert.Error(t, consumer.HandleMessage(ctx, msg))
	})
}

type recordingProducer struct {
	topic string
	key   int64
	value []byte
}

func (p *recordingProducer) Send(_ context.Context, topic string, key int64, value []byte) error {
	p.topic, p.key, p.value = topic, key, value
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func TestPublisher_Publish(t *testing.T) {
	producer := &recordingProducer{}
	publisher := kafka.NewPublisher(producer)

	err := publisher.Publish(context.Background(), kafka.TopicPrices, 1, kafka.EventPriceUpdated, kafka.PriceUpdated{
		CommodityID:  1,
		Name:         "Gold",
		CurrentPrice: decimal.RequireFromString("2010.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, kafka.TopicPrices, producer.topic)
	assert.Equal(t, int64(1), producer.key)

	var event kafka.Event
	require.NoError(t, json.Unmarshal(producer.value, &event))
	assert.Equal(t, kafka.EventPriceUpdated, event.Type)
	assert.NotEmpty(t, event.ID)

	var payload kafka.PriceUpdated
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.True(t, payload.CurrentPrice.Equal(decimal.RequireFromString("2010.50")))
}
