package handler

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/deppfellow/apidocs-boilerplate/internal/middleware"
	"github.com/deppfellow/apidocs-boilerplate/internal/response"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/deppfellow/apidocs-boilerplate/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler holds the dependencies shared by every concrete handler.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint. Req is a pointer to a request struct and is freshly
// allocated, bound and validated before the call.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// ResponseHandler writes a successful result.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result any)
}

// JSONResponseHandler wraps the result in the success envelope.
type JSONResponseHandler struct {
	status  int
	message string
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, response.OK(result, h.message))
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(*newrelic.Transaction, any) {}

// MessageResponseHandler writes an envelope that only carries a message.
type MessageResponseHandler struct {
	status  int
	message string
}

func (h MessageResponseHandler) Handle(c echo.Context, _ any) error {
	return c.JSON(h.status, response.OK(nil, h.message))
}

func (h MessageResponseHandler) GetOperation() string {
	return "handler_message"
}

func (h MessageResponseHandler) AddAttributes(*newrelic.Transaction, any) {}

// RawJSONResponseHandler writes a json.RawMessage verbatim, without the envelope.
type RawJSONResponseHandler struct {
	status int
}

func (h RawJSONResponseHandler) Handle(c echo.Context, result any) error {
	doc, ok := result.(json.RawMessage)
	if !ok {
		return fmt.Errorf("raw JSON handler got %T", result)
	}
	return c.JSONBlob(h.status, doc)
}

func (h RawJSONResponseHandler) GetOperation() string {
	return "handler_raw_json"
}

func (h RawJSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if txn == nil {
		return
	}
	if doc, ok := result.(json.RawMessage); ok {
		txn.AddAttribute("document.size_bytes", len(doc))
	}
}

// Option customizes the success response of Handle.
type Option func(*JSONResponseHandler)

// WithMessage sets the message of the success envelope.
func WithMessage(message string) Option {
	return func(h *JSONResponseHandler) {
		h.message = message
	}
}

// newRequest allocates the value Req points to. Requests are never shared between calls.
func newRequest[Req validation.Validatable]() Req {
	t := reflect.TypeFor[Req]()
	if t.Kind() != reflect.Pointer {
		panic(fmt.Sprintf("handler: request type %s must be a pointer", t))
	}
	return reflect.New(t.Elem()).Interface().(Req)
}

// handleRequest binds and validates the request, runs handler and writes the result,
// with logging and New Relic attributes for each phase.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()
	req := newRequest[Req]()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Debug().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle registers a typed endpoint whose result is wrapped in the success envelope.
//
//	g.POST("", handler.Handle(h, h.Create, http.StatusCreated, handler.WithMessage("Example created")))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	opts ...Option,
) echo.HandlerFunc {
	rh := JSONResponseHandler{status: status}
	for _, opt := range opts {
		opt(&rh)
	}

	return func(c echo.Context) error {
		return handleRequest(c, func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, rh)
	}
}

// HandleNoContent registers an endpoint without result data. The envelope only carries
// message.
func HandleNoContent[Req validation.Validatable](
	h Handler,
	handler HandlerFuncNoContent[Req],
	status int,
	message string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, func(c echo.Context, req Req) (any, error) {
			return nil, handler(c, req)
		}, MessageResponseHandler{status: status, message: message})
	}
}

// HandleRaw registers an endpoint that returns a JSON document written as is.
func HandleRaw[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, json.RawMessage],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, RawJSONResponseHandler{status: status})
	}
}
