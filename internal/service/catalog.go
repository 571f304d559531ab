package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/deppfellow/apidocs-boilerplate/internal/errs"
	"github.com/deppfellow/apidocs-boilerplate/internal/lib/swagger"
	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/deppfellow/apidocs-boilerplate/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	columnSwaggerURL      = "swagger_url"
	columnSwaggerDocument = "swagger_json"
	columnTags            = "tags"
	columnStatus          = "status"
	columnName            = "name"
)

// DocumentFetcher retrieves and validates a remote OpenAPI document.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (json.RawMessage, error)
}

// RegistrationNotifier is told about every newly created service.
type RegistrationNotifier interface {
	NotifyServiceRegistered(ctx context.Context, svc *model.Service) error
}

// CatalogService manages documented services and resolves their OpenAPI documents.
type CatalogService struct {
	*EntityService[model.Service]

	fetcher        DocumentFetcher
	surfaceFailure bool
	notifier       RegistrationNotifier
}

type CatalogOption func(*CatalogService)

// WithNotifier enqueues a registration notification after each create.
func WithNotifier(n RegistrationNotifier) CatalogOption {
	return func(c *CatalogService) {
		c.notifier = n
	}
}

// WithSwallowedFetchFailures makes create and update persist the service without a
// document when the swagger URL cannot be fetched, instead of failing.
func WithSwallowedFetchFailures() CatalogOption {
	return func(c *CatalogService) {
		c.surfaceFailure = false
	}
}

func NewCatalogService(repo repository.ServiceRepository, fetcher DocumentFetcher, opts ...CatalogOption) *CatalogService {
	c := &CatalogService{
		fetcher:        fetcher,
		surfaceFailure: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.EntityService = NewEntityService[model.Service](repo, c)
	return c
}

// Create registers a service and enqueues the registration notification.
func (c *CatalogService) Create(ctx context.Context, changes repository.Changes) (*model.Service, error) {
	svc, err := c.EntityService.Create(ctx, changes)
	if err != nil {
		return nil, err
	}

	if c.notifier != nil {
		if err := c.notifier.NotifyServiceRegistered(ctx, svc); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("service_id", svc.ID.String()).Msg("failed to enqueue service registration notification")
		}
	}

	return svc, nil
}

// ListActive returns the summaries of live active services ordered by name.
func (c *CatalogService) ListActive(ctx context.Context) ([]model.ServiceSummary, error) {
	services, err := c.repo.FindAllLive(ctx, repository.FindQuery{
		Filters: repository.Filters{columnStatus: model.ServiceStatusActive},
		Sort:    repository.Sort{Column: columnName},
		Columns: c.desc.SummaryColumns,
	})
	if err != nil {
		return nil, c.translate(ctx, err)
	}

	summaries := make([]model.ServiceSummary, 0, len(services))
	for _, svc := range services {
		summaries = append(summaries, svc.Summary())
	}
	return summaries, nil
}

// UpdateDocument replaces the inline document of a live service.
func (c *CatalogService) UpdateDocument(ctx context.Context, id uuid.UUID, doc json.RawMessage) (*model.Service, error) {
	if err := swagger.Validate(doc); err != nil {
		return nil, invalidDocument(err)
	}

	if _, err := c.Get(ctx, id); err != nil {
		return nil, err
	}

	svc, err := c.repo.UpdateLive(ctx, id, repository.Changes{columnSwaggerDocument: doc})
	if err != nil {
		return nil, c.translate(ctx, err)
	}
	return svc, nil
}

// ResolveDocument returns the inline document, or fetches it from the swagger URL.
func (c *CatalogService) ResolveDocument(ctx context.Context, id uuid.UUID) (json.RawMessage, error) {
	svc, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.resolve(ctx, svc)
}

func (c *CatalogService) ResolveDocumentBySlug(ctx context.Context, slug string) (json.RawMessage, error) {
	svc, err := c.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return c.resolve(ctx, svc)
}

func (c *CatalogService) resolve(ctx context.Context, svc *model.Service) (json.RawMessage, error) {
	if svc.HasDocument() {
		return svc.SwaggerDocument, nil
	}

	if url := svc.DocumentURL(); url != "" {
		doc, err := c.fetcher.Fetch(ctx, url)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("service_id", svc.ID.String()).Str("swagger_url", url).Msg("failed to fetch swagger document")
			return nil, errs.NewUpstreamFetchError("Failed to fetch the Swagger document")
		}
		return doc, nil
	}

	code := errs.CodeNoDocumentation
	return nil, errs.NewNotFoundError("Service has no Swagger documentation", true, &code)
}

func (c *CatalogService) BeforeCreate(ctx context.Context, changes repository.Changes) error {
	return c.prepareDocument(ctx, changes)
}

func (c *CatalogService) BeforeUpdate(ctx context.Context, _ *model.Service, changes repository.Changes) error {
	return c.prepareDocument(ctx, changes)
}

// prepareDocument fetches the document when only a URL is given and validates
// whichever document ends up in changes.
func (c *CatalogService) prepareDocument(ctx context.Context, changes repository.Changes) error {
	if tags, ok := changes[columnTags].([]string); ok && tags == nil {
		changes[columnTags] = []string{}
	}

	doc, hasDoc := documentOf(changes)
	url, hasURL := changes.String(columnSwaggerURL)

	if hasURL && !hasDoc {
		fetched, err := c.fetcher.Fetch(ctx, url)

		var invalid *swagger.InvalidDocumentError
		switch {
		case err == nil:
			changes[columnSwaggerDocument] = fetched
			doc, hasDoc = fetched, true
		case errors.As(err, &invalid):
			return invalidDocument(err)
		case c.surfaceFailure:
			zerolog.Ctx(ctx).Error().Err(err).Str("swagger_url", url).Msg("failed to fetch swagger document")
			return errs.NewUpstreamFetchError("Failed to fetch the Swagger document from swaggerUrl")
		default:
			zerolog.Ctx(ctx).Warn().Err(err).Str("swagger_url", url).Msg("failed to fetch swagger document, saving without it")
		}
	}

	if hasDoc {
		if err := swagger.Validate(doc); err != nil {
			return invalidDocument(err)
		}
	}

	return nil
}

func documentOf(changes repository.Changes) (json.RawMessage, bool) {
	doc, ok := changes[columnSwaggerDocument].(json.RawMessage)
	if !ok || len(doc) == 0 || string(doc) == "null" {
		return nil, false
	}
	return doc, true
}

func invalidDocument(err error) error {
	code := errs.CodeInvalidDocument
	message := err.Error()

	var invalid *swagger.InvalidDocumentError
	if errors.As(err, &invalid) {
		message = "Invalid Swagger document: " + invalid.Reason
	}

	return errs.NewBadRequestError(message, true, &code,
		[]errs.FieldError{{Field: "swaggerDocument", Error: message}}, nil)
}
