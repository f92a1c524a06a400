package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "STORAGE", "KAFKA_BROKER", "TOKEN_TTL", "PRICE_TICK_INTERVAL", "SEED_DATA"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.Storage)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.PriceTickInterval)
	assert.True(t, cfg.SeedData)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE", "Memory")
	t.Setenv("KAFKA_BROKER", "k1:9092, k2:9092")
	t.Setenv("PRICE_TICK_INTERVAL", "0s")
	t.Setenv("SEED_DATA", "false")
	t.Setenv("TOKEN_TTL", "not-a-duration")
	t.Setenv("METRICS_ADDR", "")

	cfg := Load()
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, time.Duration(0), cfg.PriceTickInterval)
	assert.False(t, cfg.SeedData)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "", cfg.MetricsAddr)
}
