package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/config"
)

// NewRateLimit returns a fixed-window limiter over Redis, applied to the
// auth endpoints to slow down credential stuffing. Counting is per client IP
// per route. When disabled or without a Redis client it is a pass-through;
// a Redis outage also falls open rather than rejecting logins.
func NewRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	window := int64(cfg.Window / time.Second)
	if window < 1 {
		window = 1
	}

	// INCR + EXPIRE on first hit, atomically.
	script := redis.NewScript(`
		local n = redis.call('INCR', KEYS[1])
		if n == 1 then
			redis.call('EXPIRE', KEYS[1], ARGV[1])
		end
		local ttl = redis.call('TTL', KEYS[1])
		return { n, ttl }
	`)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s:%s", cfg.Prefix, c.RealIP(), c.Path())
			ctx := c.Request().Context()

			res, err := script.Run(ctx, rdb, []string{key}, window).Int64Slice()
			if err != nil || len(res) != 2 {
				return next(c) // fall open on Redis trouble
			}
			count, ttl := res[0], res[1]

			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Limit) {
				if ttl > 0 {
					h.Set("Retry-After", strconv.FormatInt(ttl, 10))
				}
				return apperr.New(429, "too many requests")
			}
			return next(c)
		}
	}
}
