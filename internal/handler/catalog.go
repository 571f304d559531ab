package handler

import (
	"encoding/json"
	"net/http"

	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/deppfellow/apidocs-boilerplate/internal/repository"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/deppfellow/apidocs-boilerplate/internal/service"
	"github.com/labstack/echo/v4"
)

// ServiceHandler serves the /api/services catalog.
type ServiceHandler struct {
	Handler
	catalog *service.CatalogService
}

func NewServiceHandler(s *server.Server, catalog *service.CatalogService) *ServiceHandler {
	return &ServiceHandler{
		Handler: NewHandler(s),
		catalog: catalog,
	}
}

// NoParams is used by endpoints that take no input.
type NoParams struct{}

func (*NoParams) Validate() error { return nil }

func (h *ServiceHandler) list(c echo.Context, req *ListServicesRequest) (*repository.Page[model.Service], error) {
	return h.catalog.List(c.Request().Context(), req.Query())
}

func (h *ServiceHandler) listActive(c echo.Context, _ *NoParams) ([]model.ServiceSummary, error) {
	return h.catalog.ListActive(c.Request().Context())
}

func (h *ServiceHandler) get(c echo.Context, req *IDRequest) (*model.Service, error) {
	return h.catalog.Get(c.Request().Context(), req.UUID())
}

func (h *ServiceHandler) getBySlug(c echo.Context, req *SlugRequest) (*model.Service, error) {
	return h.catalog.GetBySlug(c.Request().Context(), req.Slug)
}

func (h *ServiceHandler) document(c echo.Context, req *IDRequest) (json.RawMessage, error) {
	return h.catalog.ResolveDocument(c.Request().Context(), req.UUID())
}

func (h *ServiceHandler) documentBySlug(c echo.Context, req *SlugRequest) (json.RawMessage, error) {
	return h.catalog.ResolveDocumentBySlug(c.Request().Context(), req.Slug)
}

func (h *ServiceHandler) create(c echo.Context, req *CreateServiceRequest) (*model.Service, error) {
	return h.catalog.Create(c.Request().Context(), req.Changes())
}

func (h *ServiceHandler) update(c echo.Context, req *UpdateServiceRequest) (*model.Service, error) {
	return h.catalog.Update(c.Request().Context(), req.UUID(), req.Changes())
}

func (h *ServiceHandler) updateDocument(c echo.Context, req *UpdateDocumentRequest) (*model.Service, error) {
	return h.catalog.UpdateDocument(c.Request().Context(), req.UUID(), req.Document)
}

func (h *ServiceHandler) delete(c echo.Context, req *IDRequest) error {
	_, err := h.catalog.Delete(c.Request().Context(), req.UUID())
	return err
}

func (h *ServiceHandler) restore(c echo.Context, req *IDRequest) (*model.Service, error) {
	return h.catalog.Restore(c.Request().Context(), req.UUID())
}

func (h *ServiceHandler) purge(c echo.Context, req *IDRequest) error {
	return h.catalog.Purge(c.Request().Context(), req.UUID())
}

func (h *ServiceHandler) List() echo.HandlerFunc {
	return Handle(h.Handler, h.list, http.StatusOK)
}

func (h *ServiceHandler) ListActive() echo.HandlerFunc {
	return Handle(h.Handler, h.listActive, http.StatusOK)
}

func (h *ServiceHandler) Get() echo.HandlerFunc {
	return Handle(h.Handler, h.get, http.StatusOK)
}

func (h *ServiceHandler) GetBySlug() echo.HandlerFunc {
	return Handle(h.Handler, h.getBySlug, http.StatusOK)
}

func (h *ServiceHandler) Document() echo.HandlerFunc {
	return HandleRaw(h.Handler, h.document, http.StatusOK)
}

func (h *ServiceHandler) DocumentBySlug() echo.HandlerFunc {
	return HandleRaw(h.Handler, h.documentBySlug, http.StatusOK)
}

func (h *ServiceHandler) Create() echo.HandlerFunc {
	return Handle(h.Handler, h.create, http.StatusCreated, WithMessage("Service created successfully"))
}

func (h *ServiceHandler) Update() echo.HandlerFunc {
	return Handle(h.Handler, h.update, http.StatusOK, WithMessage("Service updated successfully"))
}

func (h *ServiceHandler) UpdateDocument() echo.HandlerFunc {
	return Handle(h.Handler, h.updateDocument, http.StatusOK, WithMessage("Swagger document updated successfully"))
}

func (h *ServiceHandler) Delete() echo.HandlerFunc {
	return HandleNoContent(h.Handler, h.delete, http.StatusOK, "Service deleted successfully")
}

func (h *ServiceHandler) Restore() echo.HandlerFunc {
	return Handle(h.Handler, h.restore, http.StatusOK, WithMessage("Service restored successfully"))
}

func (h *ServiceHandler) Purge() echo.HandlerFunc {
	return HandleNoContent(h.Handler, h.purge, http.StatusOK, "Service permanently deleted")
}
