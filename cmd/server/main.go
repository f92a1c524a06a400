package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/honeynil/CommodityDeskService/internal/api"
	"github.com/honeynil/CommodityDeskService/internal/config"
	"github.com/honeynil/CommodityDeskService/internal/handler"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/auth"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/kafka"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/redis"
	"github.com/honeynil/CommodityDeskService/internal/observability"
	"github.com/honeynil/CommodityDeskService/internal/repository"
	"github.com/honeynil/CommodityDeskService/internal/repository/memory"
	core "github.com/honeynil/CommodityDeskService/internal/repository/postgres"
	service "github.com/honeynil/CommodityDeskService/internal/services"
	"github.com/honeynil/CommodityDeskService/internal/worker"
	_ "github.com/lib/pq"
)

type storage struct {
	users         repository.UserRepository
	commodities   repository.CommodityRepository
	orders        repository.OrderRepository
	walletLogs    repository.WalletLogRepository
	notifications repository.NotificationRepository
	tx            repository.TxManager
	close         func() error
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Storage {
	case "memory":
		store := memory.NewStore()
		return &storage{
			users:         store.Users(),
			commodities:   store.Commodities(),
			orders:        store.Orders(),
			walletLogs:    store.WalletLogs(),
			notifications: store.Notifications(),
			tx:            store,
			close:         func() error { return nil },
		}, nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to reach postgres: %w", err)
		}
		if err := core.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &storage{
			users:         core.NewPostgresUserRepository(db),
			commodities:   core.NewPostgresCommodityRepository(db),
			orders:        core.NewPostgresOrderRepository(db),
			walletLogs:    core.NewPostgresWalletLogRepository(db),
			notifications: core.NewPostgresNotificationRepository(db),
			tx:            core.NewTxManager(db),
			close:         db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.Setup(ctx, cfg)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("failed to shut down tracing", "error", err)
		}
	}()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage %s unavailable: %w", cfg.Storage, err)
	}
	defer store.close()

	redisClient, err := redis.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("redis unavailable: %w", err)
	}
	defer redisClient.Close()

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.ServiceName+"-notifications", store.users, store.notifications)
	defer consumer.Close()
	var events kafka.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
		events = kafka.NewPublisher(producer)
		go consumer.Consume(ctx)
	} else {
		slog.Warn("no kafka brokers configured, delivering events in process")
		events = kafka.NewLoopbackPublisher(consumer)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	hierarchy := service.NewRoleHierarchy(store.users)
	pricing := service.NewPricingStore(store.commodities, hierarchy, redisClient, events)
	ledger := service.NewLedger(store.users, store.walletLogs, store.tx, hierarchy, events)
	directory := service.NewUserDirectory(store.users, ledger, hierarchy, store.tx, redisClient)
	engine := service.NewOrderEngine(store.orders, store.users, pricing, ledger, hierarchy, store.tx, events)

	if cfg.SeedData {
		if err := service.NewSeeder(store.users, store.commodities, directory).Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed data: %w", err)
		}
	}

	h := handler.NewHandler(handler.Services{
		Auth:          service.NewAuthService(store.users, tokens, redisClient),
		Users:         directory,
		Pricing:       pricing,
		Ledger:        ledger,
		Orders:        engine,
		Notifications: service.NewNotificationService(store.notifications),
	})
	router := api.SetupRouter(h, auth.Middleware(tokens, redisClient))

	if cfg.PriceTickInterval > 0 {
		ticker := worker.NewPriceTicker(pricing, cfg.PriceTickInterval)
		ticker.Start(ctx)
		defer ticker.Stop()
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
