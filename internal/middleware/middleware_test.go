package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/apidocs-boilerplate/internal/config"
	"github.com/deppfellow/apidocs-boilerplate/internal/errs"
	"github.com/deppfellow/apidocs-boilerplate/internal/metrics"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, logger zerolog.Logger) (*server.Server, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			RateLimit: config.RateLimitConfig{
				Enabled:  true,
				Requests: 2,
				Window:   time.Minute,
			},
		},
		Logger:  &logger,
		Redis:   client,
		Metrics: metrics.New(),
	}, mr
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func ok(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func do(e *echo.Echo, method, target, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = ip + ":40000"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRateLimitRejectsAfterLimit(t *testing.T) {
	s, _ := newTestServer(t, zerolog.Nop())
	rl := NewRateLimitMiddleware(s)
	e := newTestEcho(s)
	e.GET("/api/examples", ok, rl.Limit("api"))

	for range 2 {
		rec := do(e, http.MethodGet, "/api/examples", "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get(HeaderRateLimitLimit))
	}

	rec := do(e, http.MethodGet, "/api/examples", "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get(HeaderRateLimitRemaining))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderRetryAfter))

	body := decodeError(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "TOO_MANY_REQUESTS", body["code"])

	assert.InDelta(t, 2, testutil.ToFloat64(s.Metrics.RateLimitAllowed.WithLabelValues("api")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.Metrics.RateLimitRejected.WithLabelValues("api")), 0)

	// Another client has its own window.
	rec = do(e, http.MethodGet, "/api/examples", "10.0.0.2")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitResetsOnNextWindow(t *testing.T) {
	s, _ := newTestServer(t, zerolog.Nop())
	rl := NewRateLimitMiddleware(s)

	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }

	e := newTestEcho(s)
	e.GET("/api/examples", ok, rl.Limit("api"))

	for range 2 {
		require.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/examples", "10.0.0.1").Code)
	}
	require.Equal(t, http.StatusTooManyRequests, do(e, http.MethodGet, "/api/examples", "10.0.0.1").Code)

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/examples", "10.0.0.1").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	s, mr := newTestServer(t, zerolog.Nop())
	rl := NewRateLimitMiddleware(s)
	e := newTestEcho(s)
	e.GET("/api/examples", ok, rl.Limit("api"))

	mr.Close()

	for range 3 {
		assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/examples", "10.0.0.1").Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	s, mr := newTestServer(t, zerolog.Nop())
	s.Config.RateLimit.Enabled = false

	e := newTestEcho(s)
	e.GET("/api/examples", ok, NewRateLimitMiddleware(s).Limit("api"))

	for range 3 {
		assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/examples", "10.0.0.1").Code)
	}
	assert.Empty(t, mr.Keys())
}

func TestGlobalErrorHandlerEnvelope(t *testing.T) {
	s, _ := newTestServer(t, zerolog.Nop())
	e := newTestEcho(s)

	e.GET("/boom", func(c echo.Context) error {
		return errors.New("dial tcp: connection refused")
	})
	e.POST("/things", func(c echo.Context) error {
		return errs.NewBadRequestError("Validation failed", true, nil,
			[]errs.FieldError{{Field: "name", Error: "is required"}}, nil)
	})

	rec := do(e, http.MethodGet, "/missing", "10.0.0.1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"success": false, "error": "Route not found", "code": "NOT_FOUND"}, decodeError(t, rec))

	rec = do(e, http.MethodGet, "/boom", "10.0.0.1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{
		"success": false,
		"error":   "Internal Server Error",
		"code":    "INTERNAL_SERVER_ERROR",
	}, decodeError(t, rec))

	rec = do(e, http.MethodPost, "/things", "10.0.0.1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "BAD_REQUEST", body["code"])
	assert.Equal(t, []any{map[string]any{"field": "name", "error": "is required"}}, body["details"])
}

func TestContextEnhancerAttachesLogger(t *testing.T) {
	var buf bytes.Buffer
	s, _ := newTestServer(t, zerolog.New(&buf))
	e := newTestEcho(s)
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())

	e.GET("/api/examples/:id", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from service")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/examples/1", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "from service", line["message"])
	assert.Equal(t, "req-123", line["request_id"])
	assert.Equal(t, "/api/examples/:id", line["path"])
}

func TestRequestIDGenerated(t *testing.T) {
	s, _ := newTestServer(t, zerolog.Nop())
	e := newTestEcho(s)
	e.Use(RequestID())
	e.GET("/", ok)

	rec := do(e, http.MethodGet, "/", "10.0.0.1")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	s, _ := newTestServer(t, zerolog.Nop())
	e := newTestEcho(s)
	e.Use(NewMetricsMiddleware(s).Observe())

	e.GET("/api/examples/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return errs.NewNotFoundError("Example not found", true, nil)
		}
		return c.NoContent(http.StatusOK)
	})

	do(e, http.MethodGet, "/api/examples/one", "10.0.0.1")
	do(e, http.MethodGet, "/api/examples/two", "10.0.0.1")
	do(e, http.MethodGet, "/api/examples/missing", "10.0.0.1")

	assert.InDelta(t, 2, testutil.ToFloat64(s.Metrics.RequestsTotal.WithLabelValues("GET", "/api/examples/:id", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.Metrics.RequestsTotal.WithLabelValues("GET", "/api/examples/:id", "404")), 0)
}
