// Package router builds the echo instance: global middleware, system routes
// (status, metrics, docs) and the /api resource groups.
package router

import (
	"github.com/deppfellow/apidocs-boilerplate/internal/handler"
	"github.com/deppfellow/apidocs-boilerplate/internal/middleware"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	m := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = m.Global.GlobalErrorHandler

	// Order matters: the request id and New Relic transaction must exist before the
	// context logger is built, and Recover must be innermost to see handler panics.
	router.Use(
		m.Global.CORS(),
		m.Global.Secure(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Metrics.Observe(),
		m.Global.RequestLogger(),
		m.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)

	api := router.Group("/api", m.RateLimit.Limit("api"))
	registerExampleRoutes(api, h, m)
	registerServiceRoutes(api, h, m)

	return router
}
