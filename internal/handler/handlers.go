package handler

import (
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
	"github.com/deppfellow/apidocs-boilerplate/internal/service"
)

type Handlers struct {
	Welcome  *WelcomeHandler
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Docs     *DocsHandler
	Examples *ExampleHandler
	Services *ServiceHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Welcome:  NewWelcomeHandler(s),
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Docs:     NewDocsHandler(s, services.Catalog),
		Examples: NewExampleHandler(s, services.Examples),
		Services: NewServiceHandler(s, services.Catalog),
	}
}
