package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName       string
	HTTPAddr          string
	MetricsAddr       string
	Storage           string
	PostgresDSN       string
	RedisAddr         string
	KafkaBrokers      []string
	JWTSecret         string
	TokenTTL          time.Duration
	OTLPEndpoint      string
	PriceTickInterval time.Duration
	SeedData          bool
	LogLevel          string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file, using default values", "error", err)
	}

	cfg := &Config{
		ServiceName:       getEnv("SERVICE_NAME", "commodity-desk"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		MetricsAddr:       os.Getenv("METRICS_ADDR"),
		Storage:           strings.ToLower(getEnv("STORAGE", "postgres")),
		PostgresDSN:       getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=commodity sslmode=disable"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:      splitList(getEnv("KAFKA_BROKER", "localhost:9092")),
		JWTSecret:         getEnv("JWT_SECRET", "supersecret"),
		TokenTTL:          getDuration("TOKEN_TTL", 24*time.Hour),
		OTLPEndpoint:      os.Getenv("OTLP_ENDPOINT"),
		PriceTickInterval: getDuration("PRICE_TICK_INTERVAL", 30*time.Second),
		SeedData:          getBool("SEED_DATA", true),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
	if _, set := os.LookupEnv("METRICS_ADDR"); !set {
		cfg.MetricsAddr = ":9090"
	}

	slog.Info("config loaded",
		"http_addr", cfg.HTTPAddr,
		"storage", cfg.Storage,
		"redis_addr", cfg.RedisAddr,
		"kafka_brokers", cfg.KafkaBrokers,
		"price_tick_interval", cfg.PriceTickInterval.String(),
		"seed_data", cfg.SeedData)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", def.String())
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool, using default", "key", key, "value", v)
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
