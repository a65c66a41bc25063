package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/lalarentals/users-micro/internal/config"
)

// tokenBucket refills in whole intervals and takes one token per request.
// It returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// NewTokenBucket limits requests per key (see config.RateLimitConfig
// KeyStrategy) with a token bucket kept in Redis.  When disabled, when rdb
// is nil, or when Redis errors, requests pass through unlimited.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, logger *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			ctx := c.Request().Context()
			vals, err := tokenBucket.Run(ctx, rdb, []string{key},
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL/time.Second),
			).Result()
			if err != nil {
				logger.WarnContext(ctx, "rate limit skipped", "key", key, "error", err)
				return next(c)
			}

			res, ok := bucketResult(vals)
			if !ok {
				logger.WarnContext(ctx, "rate limit skipped", "key", key, "result", fmt.Sprintf("%#v", vals))
				return next(c)
			}
			allowed, remaining, retryMs := res[0] == 1, res[1], res[2]

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				h.Set("Retry-After", strconv.Itoa(secs))
				if cfg.Debug {
					logger.InfoContext(ctx, "rate limited", "key", key, "retry_ms", retryMs)
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"detail":      "Too many requests. Please try again later.",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// bucketResult reads the script's {allowed, tokens, retry_after_ms} reply.
func bucketResult(v any) ([3]int64, bool) {
	var out [3]int64
	arr, ok := v.([]any)
	if !ok || len(arr) != len(out) {
		return out, false
	}
	for i, x := range arr {
		n, ok := x.(int64)
		if !ok {
			return out, false
		}
		out[i] = n
	}
	return out, true
}

// buildRateKey joins the components named by the key strategy, e.g.
// "ip_route" gives "<prefix>:ip:<ip>:route:<method> <path>".  Unknown
// strategies key on all three.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	strategy := strings.ToLower(cfg.KeyStrategy)
	switch strategy {
	case "ip", "user", "route", "ip_user", "ip_route", "user_route":
	default:
		strategy = "ip_user_route"
	}

	key := cfg.Prefix
	for _, part := range strings.Split(strategy, "_") {
		var v string
		switch part {
		case "ip":
			if v = c.RealIP(); v == "" {
				v = "unknown"
			}
		case "user":
			v = currentUserID(c)
		case "route":
			v = c.Request().Method + " " + c.Path()
		}
		key += ":" + part + ":" + v
	}
	return key
}
