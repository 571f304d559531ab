package response

import (
	"encoding/json"
	"testing"

	"github.com/deppfellow/apidocs-boilerplate/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessOmitsEmptyFields(t *testing.T) {
	out, err := json.Marshal(OK(nil, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(out))

	out, err = json.Marshal(OK(map[string]int{"n": 1}, "Created"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"n":1},"message":"Created"}`, string(out))
}

func TestErrorEnvelope(t *testing.T) {
	code := "SERVICE_ALREADY_EXISTS"
	out, err := json.Marshal(FromHTTPError(errs.NewConflictError("A Service with this Slug already exists", &code), ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"A Service with this Slug already exists","code":"SERVICE_ALREADY_EXISTS"}`, string(out))

	out, err = json.Marshal(FromHTTPError(errs.NewBadRequestError("Validation failed", true, nil,
		[]errs.FieldError{{Field: "name", Error: "is required"}}, nil), ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Validation failed","code":"BAD_REQUEST","details":[{"field":"name","error":"is required"}]}`, string(out))
}

func TestErrorHidesInternalMessages(t *testing.T) {
	internal := &errs.HTTPError{Code: "INTERNAL_SERVER_ERROR", Message: "pq: connection refused", Status: 500}
	assert.Equal(t, "Internal Server Error", FromHTTPError(internal, "Internal Server Error").Error)

	upstream := errs.NewUpstreamFetchError("Failed to fetch the Swagger document")
	assert.Equal(t, "Failed to fetch the Swagger document", FromHTTPError(upstream, "Internal Server Error").Error)
}
