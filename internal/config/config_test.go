package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_NAME", "rentals")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestParseDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, TransportLog, cfg.Notify.Transport)
	assert.Equal(t, "notifications.email", cfg.Notify.AMQP.Queue)
	assert.Equal(t, 30*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, map[string]bool{"GET": true}, cfg.Cache.MethodSet())
	assert.True(t, cfg.IsDev())
}

func TestParseMissingSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestParseRejectsBadDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_TTL", "forever")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestRateLimitNormalize(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, 1, cfg.RateLimit.RefillTokens)
	assert.Equal(t, time.Minute, cfg.RateLimit.RefillInterval)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.TTL)
}

func TestRedisAddress(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Addr: "x:1", Host: "cache", Port: "6380"}.address())
	assert.Equal(t, "x:1", RedisConfig{Addr: "x:1", Host: "cache"}.address())
}
