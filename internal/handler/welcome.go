package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/apidocs-boilerplate/internal/response"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/labstack/echo/v4"
)

const documentationDisabled = "Swagger documentation is disabled"

type WelcomeHandler struct {
	Handler
}

func NewWelcomeHandler(s *server.Server) *WelcomeHandler {
	return &WelcomeHandler{
		Handler: NewHandler(s),
	}
}

type welcome struct {
	Welcome       string  `json:"welcome"`
	Uptime        float64 `json:"uptime"`
	Timestamp     string  `json:"timestamp"`
	Documentation string  `json:"documentation"`
	ResponseTime  string  `json:"responseTime"`
}

func (h *WelcomeHandler) Welcome(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config

	documentation := documentationDisabled
	if cfg.Docs.SwaggerUIEnabled(cfg.Primary.Env) {
		documentation = c.Scheme() + "://" + c.Request().Host + "/documentation"
	}

	return c.JSON(http.StatusOK, response.OK(welcome{
		Welcome:       cfg.Primary.AppName,
		Uptime:        time.Since(h.server.StartedAt).Seconds(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Documentation: documentation,
		ResponseTime:  time.Since(start).String(),
	}, ""))
}
