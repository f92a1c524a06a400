package service

import (
	"context"
	"log/slog"

	"github.com/honeynil/CommodityDeskService/internal/infrastructure/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "commodity-desk-service"

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name)
}

// fail marks the span as failed and hands err back.
func fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}

// publish emits a domain event after the state it describes has been committed.
// Delivery problems are logged; they never undo the operation.
func publish(ctx context.Context, events kafka.EventPublisher, topic string, key int64, eventType string, payload any) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, topic, key, eventType, payload); err != nil {
		slog.Error("failed to publish event", "topic", topic, "type", eventType, "key", key, "error", err)
	}
}
