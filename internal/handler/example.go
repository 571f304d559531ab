package handler

import (
	"net/http"

	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/deppfellow/apidocs-boilerplate/internal/repository"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/deppfellow/apidocs-boilerplate/internal/service"
	"github.com/labstack/echo/v4"
)

type ExampleHandler struct {
	Handler
	examples *service.EntityService[model.Example]
}

func NewExampleHandler(s *server.Server, examples *service.EntityService[model.Example]) *ExampleHandler {
	return &ExampleHandler{
		Handler:  NewHandler(s),
		examples: examples,
	}
}

func (h *ExampleHandler) list(c echo.Context, req *ListExamplesRequest) (*repository.Page[model.Example], error) {
	return h.examples.List(c.Request().Context(), req.Query())
}

func (h *ExampleHandler) get(c echo.Context, req *IDRequest) (*model.Example, error) {
	return h.examples.Get(c.Request().Context(), req.UUID())
}

func (h *ExampleHandler) create(c echo.Context, req *CreateExampleRequest) (*model.Example, error) {
	return h.examples.Create(c.Request().Context(), req.Changes())
}

func (h *ExampleHandler) update(c echo.Context, req *UpdateExampleRequest) (*model.Example, error) {
	return h.examples.Update(c.Request().Context(), req.UUID(), req.Changes())
}

func (h *ExampleHandler) delete(c echo.Context, req *IDRequest) error {
	_, err := h.examples.Delete(c.Request().Context(), req.UUID())
	return err
}

func (h *ExampleHandler) restore(c echo.Context, req *IDRequest) (*model.Example, error) {
	return h.examples.Restore(c.Request().Context(), req.UUID())
}

func (h *ExampleHandler) purge(c echo.Context, req *IDRequest) error {
	return h.examples.Purge(c.Request().Context(), req.UUID())
}

func (h *ExampleHandler) List() echo.HandlerFunc {
	return Handle(h.Handler, h.list, http.StatusOK)
}

func (h *ExampleHandler) Get() echo.HandlerFunc {
	return Handle(h.Handler, h.get, http.StatusOK)
}

func (h *ExampleHandler) Create() echo.HandlerFunc {
	return Handle(h.Handler, h.create, http.StatusCreated, WithMessage("Example created successfully"))
}

func (h *ExampleHandler) Update() echo.HandlerFunc {
	return Handle(h.Handler, h.update, http.StatusOK, WithMessage("Example updated successfully"))
}

func (h *ExampleHandler) Delete() echo.HandlerFunc {
	return HandleNoContent(h.Handler, h.delete, http.StatusOK, "Example deleted successfully")
}

func (h *ExampleHandler) Restore() echo.HandlerFunc {
	return Handle(h.Handler, h.restore, http.StatusOK, WithMessage("Example restored successfully"))
}

func (h *ExampleHandler) Purge() echo.HandlerFunc {
	return HandleNoContent(h.Handler, h.purge, http.StatusOK, "Example permanently deleted")
}
