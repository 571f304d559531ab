package repository

import (
	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
)

// Repositories holds one store per entity.
type Repositories struct {
	Examples ExampleRepository
	Services ServiceRepository
}

// NewRepositories builds the PostgreSQL backed stores on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Examples: NewPostgresRepository[model.Example](s.DB.Pool, ExampleDescriptor),
		Services: NewPostgresRepository[model.Service](s.DB.Pool, ServiceDescriptor),
	}
}

// NewMemoryRepositories builds in-process stores with the same behavior.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Examples: NewMemoryRepository[model.Example](ExampleDescriptor),
		Services: NewMemoryRepository[model.Service](ServiceDescriptor),
	}
}
