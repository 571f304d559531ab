package router

import (
	"github.com/deppfellow/apidocs-boilerplate/internal/handler"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the routes that sit outside /api.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/", h.Welcome.Welcome)
	r.GET("/status", h.Health.CheckHealth)

	if s.Metrics != nil {
		r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	}

	r.GET("/docs", h.Docs.Index)
	r.GET("/docs/:slug", h.Docs.ServiceUI)
	r.GET("/docs/:slug/openapi.json", h.Docs.Document())

	if s.Config.Docs.SwaggerUIEnabled(s.Config.Primary.Env) {
		r.GET("/documentation", h.OpenAPI.ServeOpenAPIUI)
		r.GET("/documentation/openapi.json", h.OpenAPI.ServeOpenAPIDocument)
	}
}
