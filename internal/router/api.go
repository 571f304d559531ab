package router

import (
	"github.com/deppfellow/apidocs-boilerplate/internal/handler"
	"github.com/deppfellow/apidocs-boilerplate/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Reads are public. Writes go through Clerk when auth is enabled.

func registerExampleRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	protect := m.Auth.Protect()
	examples := api.Group("/examples")

	examples.GET("", h.Examples.List())
	examples.GET("/:id", h.Examples.Get())

	examples.POST("", h.Examples.Create(), protect)
	examples.PUT("/:id", h.Examples.Update(), protect)
	examples.DELETE("/:id", h.Examples.Delete(), protect)
	examples.POST("/:id/restore", h.Examples.Restore(), protect)
	examples.DELETE("/:id/permanent", h.Examples.Purge(), protect)
}

func registerServiceRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	protect := m.Auth.Protect()
	services := api.Group("/services")

	services.GET("", h.Services.List())
	services.GET("/active", h.Services.ListActive())
	services.GET("/slug/:slug", h.Services.GetBySlug())
	services.GET("/slug/:slug/swagger", h.Services.DocumentBySlug())
	services.GET("/:id", h.Services.Get())
	services.GET("/:id/swagger", h.Services.Document())

	services.POST("", h.Services.Create(), protect)
	services.PUT("/:id", h.Services.Update(), protect)
	services.PUT("/:id/swagger", h.Services.UpdateDocument(), protect)
	services.DELETE("/:id", h.Services.Delete(), protect)
	services.POST("/:id/restore", h.Services.Restore(), protect)
	services.DELETE("/:id/permanent", h.Services.Purge(), protect)
}
