package validation

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/deppfellow/apidocs-boilerplate/internal/errs"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by every request payload.
type Validatable interface {
	Validate() error
}

// RawBodyBinder is implemented by payloads whose body is taken verbatim instead of being
// decoded into fields. Path parameters are still bound.
type RawBodyBinder interface {
	BindRawBody(body []byte) error
}

// maxRawBody bounds bodies read by RawBodyBinder payloads.
const maxRawBody = 10 << 20

// BindAndValidate binds path, query and body into payload and validates it. Failures are
// returned as a bad request with field level details.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := bind(c, payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func bind(c echo.Context, payload Validatable) error {
	raw, ok := payload.(RawBodyBinder)
	if !ok {
		return c.Bind(payload)
	}

	if err := (&echo.DefaultBinder{}).BindPathParams(c, payload); err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRawBody))
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	return raw.BindRawBody(body)
}

func bindErrorMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Internal != nil {
			return fmt.Sprintf("Invalid request: %v", echoErr.Internal)
		}
		if msg, ok := echoErr.Message.(string); ok {
			return msg
		}
		return http.StatusText(echoErr.Code)
	}
	return "Invalid request: " + err.Error()
}
