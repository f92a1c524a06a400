package observability

import (
	"context"

	"github.com/honeynil/CommodityDeskService/internal/config"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/observability"
)

// Setup wires logs, metrics and traces and returns the tracer shutdown hook.
func Setup(ctx context.Context, cfg *config.Config) func(context.Context) error {
	observability.InitLogger(cfg.LogLevel)
	observability.InitMetrics(cfg.MetricsAddr)
	return observability.InitTracing(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
}
