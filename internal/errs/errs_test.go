package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantsCarryCanonicalStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"not found", NewNotFoundError("missing", true, nil), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", NewConflictError("dup", nil), http.StatusConflict, "CONFLICT"},
		{"bad request", NewBadRequestError("bad", true, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"upstream", NewUpstreamFetchError("down"), http.StatusInternalServerError, CodeUpstreamFetchFailed},
		{"rate limited", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Status)
			assert.Equal(t, tc.code, tc.err.Code)
		})
	}
}

func TestCustomCodeOverridesDefault(t *testing.T) {
	code := "SERVICE_ALREADY_EXISTS"
	err := NewConflictError("dup", &code)
	assert.Equal(t, code, err.Code)
}

func TestStatusOfUnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("loading service: %w", NewNotFoundError("Service not found", true, nil))

	assert.Equal(t, http.StatusNotFound, StatusOf(wrapped))
	assert.Equal(t, "NOT_FOUND", CodeOf(wrapped))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
	assert.Empty(t, CodeOf(errors.New("boom")))
}

func TestWithMessageKeepsKind(t *testing.T) {
	base := NewConflictError("dup", nil)
	changed := base.WithMessage("slug taken")

	require.NotSame(t, base, changed)
	assert.Equal(t, "slug taken", changed.Error())
	assert.Equal(t, base.Code, changed.Code)
	assert.True(t, errors.Is(changed, &HTTPError{}))
}
