package middleware

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/deppfellow/apidocs-boilerplate/internal/errs"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	rateLimitKeyPrefix = "ratelimit"

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimitMiddleware is a fixed window limiter keyed by client IP and stored in Redis,
// so every API instance shares the same counters.
type RateLimitMiddleware struct {
	server *server.Server
	now    func() time.Time
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
		now:    time.Now,
	}
}

// Limit counts requests under name. It is a no-op when rate limiting is disabled, and
// it lets requests through when Redis cannot be reached.
func (r *RateLimitMiddleware) Limit(name string) echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	if !cfg.Enabled || r.server.Redis == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			now := r.now()

			window := now.UnixNano() / int64(cfg.Window)
			resetAt := time.Unix(0, (window+1)*int64(cfg.Window))
			key := fmt.Sprintf("%s:%s:%s:%d", rateLimitKeyPrefix, name, c.RealIP(), window)

			pipe := r.server.Redis.TxPipeline()
			incr := pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, cfg.Window)
			if _, err := pipe.Exec(ctx); err != nil {
				GetLogger(c).Error().Err(err).Str("limiter", name).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			count := int(incr.Val())
			header := c.Response().Header()
			header.Set(HeaderRateLimitLimit, strconv.Itoa(cfg.Requests))
			header.Set(HeaderRateLimitRemaining, strconv.Itoa(max(cfg.Requests-count, 0)))
			header.Set(HeaderRateLimitReset, strconv.FormatInt(resetAt.Unix(), 10))

			if count > cfg.Requests {
				retryAfter := int(math.Ceil(resetAt.Sub(now).Seconds()))
				header.Set(echo.HeaderRetryAfter, strconv.Itoa(max(retryAfter, 1)))

				r.recordRejected(name)
				r.RecordRateLimitHit(c.Path())

				return errs.NewTooManyRequestsError("Too many requests, please try again later")
			}

			if r.server.Metrics != nil {
				r.server.Metrics.RateLimitAllowed.WithLabelValues(name).Inc()
			}
			return next(c)
		}
	}
}

func (r *RateLimitMiddleware) recordRejected(name string) {
	if r.server.Metrics != nil {
		r.server.Metrics.RateLimitRejected.WithLabelValues(name).Inc()
	}
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}
