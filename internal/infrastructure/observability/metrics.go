package observability

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Счётчик вызовов методов репозитория
	RepositoryCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repository_calls_total",
			Help: "Total number of repository method calls",
		},
		[]string{"method", "status"},
	)

	// Гистограмма времени выполнения запросов
	RepositoryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repository_duration_seconds",
			Help:    "Duration of repository method calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Total number of placed orders",
		},
		[]string{"type"},
	)

	OrdersProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_processed_total",
			Help: "Order processing attempts by decision and result",
		},
		[]string{"decision", "result"},
	)

	LedgerDeltas = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_deltas_total",
			Help: "Wallet balance changes by direction and result",
		},
		[]string{"direction", "result"},
	)

	CommodityPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "commodity_price",
			Help: "Current commodity price",
		},
		[]string{"commodity"},
	)
)

// InitMetrics registers the collectors and, when addr is set, serves them on a side port.
func InitMetrics(addr string) {
	prometheus.MustRegister(RepositoryCalls, RepositoryDuration, OrdersPlaced, OrdersProcessed, LedgerDeltas, CommodityPrice)
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
}

// ResultLabel collapses an error into the "result" label value used by business metrics.
func ResultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
