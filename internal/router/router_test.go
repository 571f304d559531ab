package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/apidocs-boilerplate/internal/config"
	"github.com/deppfellow/apidocs-boilerplate/internal/handler"
	"github.com/deppfellow/apidocs-boilerplate/internal/metrics"
	"github.com/deppfellow/apidocs-boilerplate/internal/repository"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/deppfellow/apidocs-boilerplate/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test", AppName: "Boilerplate API"},
			Docs: config.DocsConfig{
				SwaggerEnabled: "true",
				FetchTimeout:   2 * time.Second,
			},
		},
		Logger:    &logger,
		Metrics:   metrics.New(),
		StartedAt: time.Now(),
	}

	services, err := service.NewServices(s, repository.NewMemoryRepositories())
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details []struct {
		Field string `json:"field"`
		Error string `json:"error"`
	} `json:"details"`
}

type record struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Status    string     `json:"status"`
	DeletedAt *time.Time `json:"deletedAt"`
}

func call(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestExampleLifecycle(t *testing.T) {
	e := newTestRouter(t)

	rec, env := call(t, e, http.MethodPost, "/api/examples", `{"name":"Widget One"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	assert.Equal(t, "Example created successfully", env.Message)

	created := decode[record](t, env.Data)
	assert.Equal(t, "active", created.Status)
	assert.Nil(t, created.DeletedAt)
	assert.Contains(t, string(env.Data), `"deletedAt":null`)

	rec, env = call(t, e, http.MethodDelete, "/api/examples/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Example deleted successfully", env.Message)

	rec, env = call(t, e, http.MethodGet, "/api/examples/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "EXAMPLE_NOT_FOUND", env.Code)

	rec, env = call(t, e, http.MethodPost, "/api/examples/"+created.ID+"/restore", "")
	require.Equal(t, http.StatusOK, rec.Code)
	restored := decode[record](t, env.Data)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, "Widget One", restored.Name)

	rec, _ = call(t, e, http.MethodGet, "/api/examples/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = call(t, e, http.MethodDelete, "/api/examples/"+created.ID+"/permanent", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = call(t, e, http.MethodPost, "/api/examples/"+created.ID+"/restore", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExampleListPagination(t *testing.T) {
	e := newTestRouter(t)

	for _, name := range []string{"Alpha widget", "Beta widget", "Gamma gadget"} {
		rec, _ := call(t, e, http.MethodPost, "/api/examples", `{"name":"`+name+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := call(t, e, http.MethodGet, "/api/examples?limit=2&search=widget", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[struct {
		Items      []record              `json:"items"`
		Pagination repository.Pagination `json:"pagination"`
	}](t, env.Data)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, repository.Pagination{Page: 1, Limit: 2, Total: 2, TotalPages: 1}, page.Pagination)

	rec, env = call(t, e, http.MethodGet, "/api/examples?limit=500", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.Details, 1)
	assert.Equal(t, "limit", env.Details[0].Field)

	rec, _ = call(t, e, http.MethodGet, "/api/examples?page=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExampleValidation(t *testing.T) {
	e := newTestRouter(t)

	rec, env := call(t, e, http.MethodPost, "/api/examples", `{"name":"ab"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", env.Code)
	require.Len(t, env.Details, 1)
	assert.Equal(t, "name", env.Details[0].Field)

	rec, env = call(t, e, http.MethodGet, "/api/examples/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.Details, 1)
	assert.Equal(t, "id", env.Details[0].Field)
}

func TestServiceCatalogRoutes(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"swagger":"2.0","info":{"title":"Billing"}}`))
	}))
	defer upstream.Close()

	e := newTestRouter(t)

	rec, env := call(t, e, http.MethodPost, "/api/services",
		`{"name":"Billing API","version":"1.2.0","swaggerUrl":"`+upstream.URL+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	svc := decode[record](t, env.Data)
	assert.Equal(t, "billing-api", svc.Slug)

	rec, env = call(t, e, http.MethodPost, "/api/services", `{"name":"Billing  API!"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "SERVICE_ALREADY_EXISTS", env.Code)

	rec, _ = call(t, e, http.MethodGet, "/api/services/slug/billing-api/swagger", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"swagger":"2.0","info":{"title":"Billing"}}`, rec.Body.String())

	rec, _ = call(t, e, http.MethodPut, "/api/services/"+svc.ID+"/swagger", `{"openapi":"3.0.3","paths":{}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = call(t, e, http.MethodGet, "/api/services/"+svc.ID+"/swagger", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"openapi":"3.0.3","paths":{}}`, rec.Body.String())

	rec, env = call(t, e, http.MethodPut, "/api/services/"+svc.ID+"/swagger", `{"info":{}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DOCUMENT", env.Code)

	rec, env = call(t, e, http.MethodGet, "/api/services/active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	active := decode[[]record](t, env.Data)
	require.Len(t, active, 1)
	assert.Equal(t, "Billing API", active[0].Name)

	rec, env = call(t, e, http.MethodPost, "/api/services", `{"name":"Orphan service"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	orphan := decode[record](t, env.Data)

	rec, env = call(t, e, http.MethodGet, "/api/services/"+orphan.ID+"/swagger", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "DOCUMENTATION_NOT_FOUND", env.Code)
}

func TestDocumentationPages(t *testing.T) {
	e := newTestRouter(t)

	rec, _ := call(t, e, http.MethodPost, "/api/services",
		`{"name":"Search API","category":"core","swaggerDocument":{"openapi":"3.0.0"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = call(t, e, http.MethodGet, "/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Search API")
	assert.Contains(t, rec.Body.String(), `href="/docs/search-api"`)

	rec, _ = call(t, e, http.MethodGet, "/docs/search-api", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")

	rec, _ = call(t, e, http.MethodGet, "/docs/search-api/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"openapi":"3.0.0"}`, rec.Body.String())

	rec, _ = call(t, e, http.MethodGet, "/docs/unknown-service", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Service not found")

	rec, _ = call(t, e, http.MethodGet, "/documentation/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.0", doc["openapi"])
	assert.Contains(t, doc["paths"], "/api/services/{id}/swagger")
}

func TestSystemRoutes(t *testing.T) {
	e := newTestRouter(t)

	rec, env := call(t, e, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	welcome := decode[map[string]any](t, env.Data)
	assert.Equal(t, "Boilerplate API", welcome["welcome"])
	assert.Equal(t, "http://example.com/documentation", welcome["documentation"])

	call(t, e, http.MethodGet, "/api/examples", "")

	rec, _ = call(t, e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `boilerplate_http_requests_total{method="GET",route="/api/examples",status="200"} 1`)

	rec, env = call(t, e, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", env.Error)
}
