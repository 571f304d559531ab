package middleware

import (
	"strconv"
	"time"

	"github.com/deppfellow/apidocs-boilerplate/internal/metrics"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/labstack/echo/v4"
)

const unmatchedRoute = "unmatched"

// MetricsMiddleware records request counts and latency per route template.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

func NewMetricsMiddleware(s *server.Server) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: s.Metrics}
}

func (m *MetricsMiddleware) Observe() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m.metrics == nil {
			return next
		}

		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			// Route templates keep label cardinality bounded.
			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			method := c.Request().Method
			status := statusOf(c.Response().Status, err)

			m.metrics.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.metrics.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
