package handler

import (
	"encoding/json"
	"strings"

	"github.com/deppfellow/apidocs-boilerplate/internal/repository"
	"github.com/deppfellow/apidocs-boilerplate/internal/validation"
	"github.com/google/uuid"
)

// IDParam is the :id path segment. It is validated as a UUID before it is parsed so the
// client gets a field error instead of a parse error.
type IDParam struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
}

func (p IDParam) UUID() uuid.UUID {
	return uuid.MustParse(p.ID)
}

type IDRequest struct {
	IDParam
}

func (r *IDRequest) Validate() error {
	return validation.Struct(r)
}

type SlugRequest struct {
	Slug string `param:"slug" json:"-" validate:"required,min=3,max=100,slug"`
}

func (r *SlugRequest) Validate() error {
	return validation.Struct(r)
}

// ListRequest holds the pagination and search parameters shared by list endpoints.
type ListRequest struct {
	Page   *int   `query:"page" validate:"omitempty,min=1"`
	Limit  *int   `query:"limit" validate:"omitempty,min=1,max=100"`
	Search string `query:"search" validate:"omitempty,max=100"`
}

func (r ListRequest) query(filters repository.Filters) repository.ListQuery {
	q := repository.ListQuery{
		Filters: filters,
		Search:  strings.TrimSpace(r.Search),
	}
	if r.Page != nil {
		q.Page = *r.Page
	}
	if r.Limit != nil {
		q.Limit = *r.Limit
	}
	return q
}

type ListExamplesRequest struct {
	ListRequest
	Status string `query:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *ListExamplesRequest) Validate() error {
	return validation.Struct(r)
}

func (r *ListExamplesRequest) Query() repository.ListQuery {
	return r.query(repository.Filters{"status": r.Status})
}

type CreateExampleRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *CreateExampleRequest) Validate() error {
	return validation.Struct(r)
}

func (r *CreateExampleRequest) Changes() repository.Changes {
	changes := repository.Changes{"name": strings.TrimSpace(r.Name)}
	putString(changes, "description", r.Description)
	putString(changes, "status", r.Status)
	return changes
}

type UpdateExampleRequest struct {
	IDParam
	Name        *string `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *UpdateExampleRequest) Validate() error {
	return validation.Struct(r)
}

func (r *UpdateExampleRequest) Changes() repository.Changes {
	changes := repository.Changes{}
	putString(changes, "name", r.Name)
	putString(changes, "description", r.Description)
	putString(changes, "status", r.Status)
	return changes
}

type ListServicesRequest struct {
	ListRequest
	Status   string `query:"status" validate:"omitempty,oneof=active inactive deprecated"`
	Category string `query:"category" validate:"omitempty,max=100"`
}

func (r *ListServicesRequest) Validate() error {
	return validation.Struct(r)
}

func (r *ListServicesRequest) Query() repository.ListQuery {
	return r.query(repository.Filters{
		"status":   r.Status,
		"category": strings.TrimSpace(r.Category),
	})
}

// serviceFields are the writable fields of a service. Create and update differ only in
// which of them are required.
type serviceFields struct {
	Slug            *string         `json:"slug" validate:"omitempty,min=3,max=100,slug"`
	Description     *string         `json:"description" validate:"omitempty,max=1000"`
	Version         *string         `json:"version" validate:"omitempty,max=50"`
	BaseURL         *string         `json:"baseUrl" validate:"omitempty,url,max=255"`
	SwaggerURL      *string         `json:"swaggerUrl" validate:"omitempty,url"`
	SwaggerDocument json.RawMessage `json:"swaggerDocument"`
	Status          *string         `json:"status" validate:"omitempty,oneof=active inactive deprecated"`
	Category        *string         `json:"category" validate:"omitempty,max=100"`
	Tags            []string        `json:"tags" validate:"omitempty,dive,required,max=50"`
}

func (f serviceFields) put(changes repository.Changes) {
	putString(changes, "slug", f.Slug)
	putString(changes, "description", f.Description)
	putString(changes, "version", f.Version)
	putString(changes, "base_url", f.BaseURL)
	putString(changes, "swagger_url", f.SwaggerURL)
	putString(changes, "status", f.Status)
	putString(changes, "category", f.Category)

	if len(f.SwaggerDocument) > 0 && string(f.SwaggerDocument) != "null" {
		changes["swagger_json"] = f.SwaggerDocument
	}
	if f.Tags != nil {
		tags := make([]string, 0, len(f.Tags))
		for _, tag := range f.Tags {
			tags = append(tags, strings.TrimSpace(tag))
		}
		changes["tags"] = tags
	}
}

type CreateServiceRequest struct {
	Name string `json:"name" validate:"required,min=3,max=100"`
	serviceFields
}

func (r *CreateServiceRequest) Validate() error {
	return validation.Struct(r)
}

func (r *CreateServiceRequest) Changes() repository.Changes {
	changes := repository.Changes{"name": strings.TrimSpace(r.Name)}
	r.put(changes)
	return changes
}

type UpdateServiceRequest struct {
	IDParam
	Name *string `json:"name" validate:"omitempty,min=3,max=100"`
	serviceFields
}

func (r *UpdateServiceRequest) Validate() error {
	return validation.Struct(r)
}

func (r *UpdateServiceRequest) Changes() repository.Changes {
	changes := repository.Changes{}
	putString(changes, "name", r.Name)
	r.put(changes)
	return changes
}

// UpdateDocumentRequest takes the whole body as the new document.
type UpdateDocumentRequest struct {
	IDParam
	Document json.RawMessage `json:"-" validate:"required"`
}

func (r *UpdateDocumentRequest) BindRawBody(body []byte) error {
	r.Document = body
	return nil
}

func (r *UpdateDocumentRequest) Validate() error {
	return validation.Struct(r)
}

// putString stores a trimmed copy of value. Nil pointers mean "not supplied".
func putString(changes repository.Changes, column string, value *string) {
	if value == nil {
		return
	}
	changes[column] = strings.TrimSpace(*value)
}
