package handler

import (
	"net/http"
	"sync"

	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API's own OpenAPI document and a Swagger UI page for it.
type OpenAPIHandler struct {
	Handler

	once sync.Once
	doc  map[string]any
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	return render(c, http.StatusOK, pageSwaggerUI, map[string]any{
		"Title":   h.server.Config.Primary.AppName,
		"SpecURL": "/documentation/openapi.json",
	})
}

func (h *OpenAPIHandler) ServeOpenAPIDocument(c echo.Context) error {
	h.once.Do(func() {
		h.doc = BuildOpenAPIDocument(h.server.Config.Primary.AppName, h.server.Config.Server.PublicURL)
	})
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.JSON(http.StatusOK, h.doc)
}

// BuildOpenAPIDocument describes the /api routes.
func BuildOpenAPIDocument(title, serverURL string) map[string]any {
	doc := map[string]any{
		"openapi": "3.0.0",
		"info": map[string]any{
			"title":       title,
			"version":     "1.0.0",
			"description": "REST API boilerplate with a catalog of documented services.",
		},
		"paths": map[string]any{},
		"components": map[string]any{
			"schemas": schemas(),
			"securitySchemes": map[string]any{
				"bearerAuth": map[string]any{"type": "http", "scheme": "bearer"},
			},
		},
	}
	if serverURL != "" {
		doc["servers"] = []any{map[string]any{"url": serverURL}}
	}

	paths := doc["paths"].(map[string]any)
	addCRUDPaths(paths, "/api/examples", "Examples", "Example", []any{
		queryParam("status", "Filter by status", enumString("active", "inactive")),
	})
	addCRUDPaths(paths, "/api/services", "Services", "Service", []any{
		queryParam("status", "Filter by status", enumString("active", "inactive", "deprecated")),
		queryParam("category", "Filter by category", map[string]any{"type": "string"}),
	})

	paths["/api/services/active"] = map[string]any{
		"get": operation("Services", "List active services ordered by name", nil, nil,
			envelope(map[string]any{"type": "array", "items": ref("ServiceSummary")}), http.StatusOK),
	}
	paths["/api/services/slug/{slug}"] = map[string]any{
		"get": operation("Services", "Get a service by slug", []any{slugParam()}, nil, envelope(ref("Service")), http.StatusOK),
	}
	paths["/api/services/slug/{slug}/swagger"] = map[string]any{
		"get": operation("Services", "Resolve the OpenAPI document of a service by slug", []any{slugParam()}, nil,
			map[string]any{"type": "object"}, http.StatusOK),
	}
	paths["/api/services/{id}/swagger"] = map[string]any{
		"get": operation("Services", "Resolve the OpenAPI document of a service", []any{idParam()}, nil,
			map[string]any{"type": "object"}, http.StatusOK),
		"put": operation("Services", "Replace the inline OpenAPI document", []any{idParam()},
			map[string]any{"type": "object"}, envelope(ref("Service")), http.StatusOK),
	}

	return doc
}

func addCRUDPaths(paths map[string]any, base, tag, schema string, filters []any) {
	listParams := append([]any{
		queryParam("page", "Page number, starting at 1", map[string]any{"type": "integer", "minimum": 1}),
		queryParam("limit", "Page size", map[string]any{"type": "integer", "minimum": 1, "maximum": 100}),
		queryParam("search", "Case-insensitive match on name and description", map[string]any{"type": "string"}),
	}, filters...)

	page := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items":      map[string]any{"type": "array", "items": ref(schema)},
			"pagination": ref("Pagination"),
		},
	}

	paths[base] = map[string]any{
		"get":  operation(tag, "List live "+tag, listParams, nil, envelope(page), http.StatusOK),
		"post": operation(tag, "Create "+schema, nil, ref(schema+"Input"), envelope(ref(schema)), http.StatusCreated),
	}
	paths[base+"/{id}"] = map[string]any{
		"get":    operation(tag, "Get "+schema, []any{idParam()}, nil, envelope(ref(schema)), http.StatusOK),
		"put":    operation(tag, "Update "+schema, []any{idParam()}, ref(schema+"Input"), envelope(ref(schema)), http.StatusOK),
		"delete": operation(tag, "Soft delete "+schema, []any{idParam()}, nil, envelope(nil), http.StatusOK),
	}
	paths[base+"/{id}/restore"] = map[string]any{
		"post": operation(tag, "Restore a soft-deleted "+schema, []any{idParam()}, nil, envelope(ref(schema)), http.StatusOK),
	}
	paths[base+"/{id}/permanent"] = map[string]any{
		"delete": operation(tag, "Permanently delete "+schema, []any{idParam()}, nil, envelope(nil), http.StatusOK),
	}
}

func operation(tag, summary string, params []any, body, result map[string]any, status int) map[string]any {
	op := map[string]any{
		"tags":    []any{tag},
		"summary": summary,
		"responses": map[string]any{
			statusKey(status): jsonResponse(http.StatusText(status), result),
			"400":             jsonResponse("Invalid input", ref("ErrorResponse")),
			"404":             jsonResponse("Not found", ref("ErrorResponse")),
			"429":             jsonResponse("Rate limited", ref("ErrorResponse")),
			"500":             jsonResponse("Internal error", ref("ErrorResponse")),
		},
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	if body != nil {
		op["requestBody"] = map[string]any{
			"required": true,
			"content":  map[string]any{"application/json": map[string]any{"schema": body}},
		}
		op["security"] = []any{map[string]any{"bearerAuth": []any{}}}
	}
	return op
}

func statusKey(status int) string {
	switch status {
	case http.StatusCreated:
		return "201"
	default:
		return "200"
	}
}

func jsonResponse(description string, schema map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content":     map[string]any{"application/json": map[string]any{"schema": schema}},
	}
}

func envelope(data map[string]any) map[string]any {
	props := map[string]any{
		"success": map[string]any{"type": "boolean"},
		"message": map[string]any{"type": "string"},
	}
	if data != nil {
		props["data"] = data
	}
	return map[string]any{"type": "object", "properties": props}
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func queryParam(name, description string, schema map[string]any) map[string]any {
	return map[string]any{"name": name, "in": "query", "description": description, "schema": schema}
}

func idParam() map[string]any {
	return map[string]any{
		"name": "id", "in": "path", "required": true,
		"schema": map[string]any{"type": "string", "format": "uuid"},
	}
}

func slugParam() map[string]any {
	return map[string]any{
		"name": "slug", "in": "path", "required": true,
		"schema": map[string]any{"type": "string", "pattern": "^[a-z0-9-]+$"},
	}
}

func enumString(values ...string) map[string]any {
	enum := make([]any, 0, len(values))
	for _, v := range values {
		enum = append(enum, v)
	}
	return map[string]any{"type": "string", "enum": enum}
}

func str(maxLength int) map[string]any {
	s := map[string]any{"type": "string"}
	if maxLength > 0 {
		s["maxLength"] = maxLength
	}
	return s
}

func nullable(schema map[string]any) map[string]any {
	schema["nullable"] = true
	return schema
}

func schemas() map[string]any {
	base := map[string]any{
		"id":        map[string]any{"type": "string", "format": "uuid"},
		"createdAt": map[string]any{"type": "string", "format": "date-time"},
		"updatedAt": map[string]any{"type": "string", "format": "date-time"},
		"deletedAt": nullable(map[string]any{"type": "string", "format": "date-time"}),
	}
	with := func(props map[string]any) map[string]any {
		out := map[string]any{}
		for k, v := range base {
			out[k] = v
		}
		for k, v := range props {
			out[k] = v
		}
		return map[string]any{"type": "object", "properties": out}
	}

	exampleProps := map[string]any{
		"name":        str(100),
		"description": nullable(str(500)),
		"status":      enumString("active", "inactive"),
	}
	serviceProps := map[string]any{
		"name":            str(100),
		"slug":            map[string]any{"type": "string", "pattern": "^[a-z0-9-]+$", "maxLength": 100},
		"description":     nullable(str(1000)),
		"version":         nullable(str(50)),
		"baseUrl":         nullable(map[string]any{"type": "string", "format": "uri"}),
		"swaggerUrl":      nullable(map[string]any{"type": "string", "format": "uri"}),
		"swaggerDocument": nullable(map[string]any{"type": "object"}),
		"status":          enumString("active", "inactive", "deprecated"),
		"category":        nullable(str(100)),
		"tags":            map[string]any{"type": "array", "items": str(50)},
	}

	return map[string]any{
		"Example":      with(exampleProps),
		"ExampleInput": map[string]any{"type": "object", "properties": exampleProps, "required": []any{"name"}},
		"Service":      with(serviceProps),
		"ServiceInput": map[string]any{"type": "object", "properties": serviceProps, "required": []any{"name"}},
		"ServiceSummary": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":          base["id"],
				"name":        serviceProps["name"],
				"slug":        serviceProps["slug"],
				"description": serviceProps["description"],
				"version":     serviceProps["version"],
				"category":    serviceProps["category"],
				"status":      serviceProps["status"],
			},
		},
		"Pagination": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"page":       map[string]any{"type": "integer"},
				"limit":      map[string]any{"type": "integer"},
				"total":      map[string]any{"type": "integer"},
				"totalPages": map[string]any{"type": "integer"},
			},
		},
		"ErrorResponse": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"success": map[string]any{"type": "boolean"},
				"error":   map[string]any{"type": "string"},
				"code":    map[string]any{"type": "string"},
				"details": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"field": map[string]any{"type": "string"},
							"error": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}
}
