package service

import (
	"github.com/deppfellow/apidocs-boilerplate/internal/lib/job"
	"github.com/deppfellow/apidocs-boilerplate/internal/lib/swagger"
	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/deppfellow/apidocs-boilerplate/internal/repository"
	"github.com/deppfellow/apidocs-boilerplate/internal/server"
)

type Services struct {
	Auth     *AuthService
	Job      *job.JobService
	Examples *EntityService[model.Example]
	Catalog  *CatalogService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService := NewAuthService(s)

	fetcher := swagger.NewFetcher(s.Config.Docs.FetchTimeout, s.Metrics.DocumentFetches)

	var opts []CatalogOption
	if !s.Config.Docs.SurfaceFetchFailures() {
		opts = append(opts, WithSwallowedFetchFailures())
	}
	if s.Job != nil && s.Config.Integration.NotificationsEnabled() {
		opts = append(opts, WithNotifier(s.Job))
	}

	return &Services{
		Job:      s.Job,
		Auth:     authService,
		Examples: NewEntityService[model.Example](repos.Examples, nil),
		Catalog:  NewCatalogService(repos.Services, fetcher, opts...),
	}, nil
}
