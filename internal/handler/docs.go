package handler

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/deppfellow/apidocs-boilerplate/internal/errs"
	"github.com/deppfellow/apidocs-boilerplate/internal/middleware"
	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/deppfellow/apidocs-boilerplate/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	pageDocsIndex = "docs_index.html"
	pageSwaggerUI = "swagger_ui.html"
	pageDocsError = "docs_error.html"
)

// DocsHandler is the documentation browser for registered services.
type DocsHandler struct {
	Handler
	catalog *service.CatalogService
}

func NewDocsHandler(s *server.Server, catalog *service.CatalogService) *DocsHandler {
	return &DocsHandler{
		Handler: NewHandler(s),
		catalog: catalog,
	}
}

type serviceCard struct {
	Name        string
	Slug        string
	Description string
	Version     string
	Category    string
}

func newServiceCard(s model.ServiceSummary) serviceCard {
	return serviceCard{
		Name:        s.Name,
		Slug:        s.Slug,
		Description: deref(s.Description),
		Version:     deref(s.Version),
		Category:    deref(s.Category),
	}
}

// Index lists the active services.
func (h *DocsHandler) Index(c echo.Context) error {
	summaries, err := h.catalog.ListActive(c.Request().Context())
	if err != nil {
		return h.renderError(c, err)
	}

	cards := make([]serviceCard, 0, len(summaries))
	for _, s := range summaries {
		cards = append(cards, newServiceCard(s))
	}

	return render(c, http.StatusOK, pageDocsIndex, map[string]any{
		"AppName":  h.server.Config.Primary.AppName,
		"Services": cards,
	})
}

// ServiceUI renders Swagger UI for one service. The document itself is loaded by the
// browser from Document.
func (h *DocsHandler) ServiceUI(c echo.Context) error {
	svc, err := h.catalog.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.renderError(c, err)
	}

	return render(c, http.StatusOK, pageSwaggerUI, map[string]any{
		"Title":   svc.Name,
		"SpecURL": "/docs/" + svc.Slug + "/openapi.json",
	})
}

func (h *DocsHandler) document(c echo.Context, req *SlugRequest) (json.RawMessage, error) {
	return h.catalog.ResolveDocumentBySlug(c.Request().Context(), req.Slug)
}

func (h *DocsHandler) Document() echo.HandlerFunc {
	return HandleRaw(h.Handler, h.document, http.StatusOK)
}

// renderError shows failures as an HTML page, with the status the error carries.
func (h *DocsHandler) renderError(c echo.Context, err error) error {
	status := errs.StatusOf(err)
	message := http.StatusText(status)

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) && (httpErr.Override || status < 500) {
		message = httpErr.Message
	}

	if status >= 500 {
		middleware.GetLogger(c).Error().Err(err).Msg("failed to render documentation page")
	}

	return render(c, status, pageDocsError, map[string]any{"Message": message})
}

func render(c echo.Context, status int, page string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, page, data); err != nil {
		return errors.Wrapf(err, "failed to render %s", page)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTMLBlob(status, buf.Bytes())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
