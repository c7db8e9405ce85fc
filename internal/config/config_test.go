package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "LOG_LEVEL", "JWT_SECRET", "TOKEN_TTL", "NEGATIVE_TOTAL_POLICY", "MAX_ACTIVE_ORDERS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gotier.db", cfg.DBDSN)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, DefaultLimits(), cfg.Limits)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("MAX_ACTIVE_ORDERS", "5")
	t.Setenv("DAILY_ORDER_CAP", "-3")
	t.Setenv("CART_CAP", "abc")
	t.Setenv("NEGATIVE_TOTAL_POLICY", "allow")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.Limits.MaxActiveOrders)
	assert.Equal(t, 100, cfg.Limits.DailyOrderCap, "negative values keep the default")
	assert.Equal(t, 10, cfg.Limits.CartCap)
	assert.False(t, cfg.Limits.ClampNegativeTotal)
}
