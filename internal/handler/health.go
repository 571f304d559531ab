package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/apidocs-boilerplate/internal/middleware"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"

	healthCheckTimeout = 5 * time.Second
)

// HealthHandler reports whether the API and its dependencies are reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type dependencyCheck struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// CheckHealth answers 503 when PostgreSQL is down. A Redis outage only degrades the
// service: rate limiting fails open and jobs wait in the queue.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()

	checks := map[string]dependencyCheck{}
	status := statusHealthy

	if h.server.DB != nil {
		check := h.check(c.Request().Context(), "database", h.server.DB.Ping)
		checks["database"] = check
		if check.Status != statusHealthy {
			status = statusUnhealthy
		}
	}

	if h.server.Redis != nil {
		check := h.check(c.Request().Context(), "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
		checks["redis"] = check
		if check.Status != statusHealthy && status == statusHealthy {
			status = statusDegraded
		}
	}

	body := map[string]any{
		"status":      status,
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if status == statusUnhealthy {
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		h.recordHealthEvent("overall", "overall_unhealthy", time.Since(start), "")
		return c.JSON(http.StatusServiceUnavailable, body)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Str("status", status).Msg("health check passed")
	return c.JSON(http.StatusOK, body)
}

func (h *HealthHandler) check(parent context.Context, name string, ping func(context.Context) error) dependencyCheck {
	ctx, cancel := context.WithTimeout(parent, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.server.Logger.Error().Err(err).Str("check", name).Dur("response_time", elapsed).Msg("health check failed")
		h.recordHealthEvent(name, name+"_unhealthy", elapsed, err.Error())

		return dependencyCheck{
			Status:       statusUnhealthy,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return dependencyCheck{
		Status:       statusHealthy,
		ResponseTime: elapsed.String(),
	}
}

func (h *HealthHandler) recordHealthEvent(checkType, errorType string, elapsed time.Duration, message string) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       checkType,
		"operation":        "health_check",
		"error_type":       errorType,
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    message,
	})
}
