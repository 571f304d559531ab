package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	ServiceStatusActive     = "active"
	ServiceStatusInactive   = "inactive"
	ServiceStatusDeprecated = "deprecated"
)

// Service is a documented API registered in the catalog.
type Service struct {
	Base
	Name            string          `json:"name" db:"name"`
	Slug            string          `json:"slug" db:"slug"`
	Description     *string         `json:"description" db:"description"`
	Version         *string         `json:"version" db:"version"`
	BaseURL         *string         `json:"baseUrl" db:"base_url"`
	SwaggerURL      *string         `json:"swaggerUrl" db:"swagger_url"`
	SwaggerDocument json.RawMessage `json:"swaggerDocument" db:"swagger_json"`
	Status          string          `json:"status" db:"status"`
	Category        *string         `json:"category" db:"category"`
	Tags            []string        `json:"tags" db:"tags"`
}

// RecordSlug makes services slug addressable in the generic service layer.
func (s Service) RecordSlug() string {
	return s.Slug
}

// HasDocument reports whether an inline OpenAPI document is stored.
func (s Service) HasDocument() bool {
	return len(s.SwaggerDocument) > 0 && string(s.SwaggerDocument) != "null"
}

// DocumentURL returns the remote document location, or "" when none is configured.
func (s Service) DocumentURL() string {
	if s.SwaggerURL == nil {
		return ""
	}
	return *s.SwaggerURL
}

// ServiceSummary is the projection listed on the docs landing page and /services/active.
type ServiceSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Version     *string   `json:"version"`
	Category    *string   `json:"category"`
	Status      string    `json:"status"`
}

// Summary projects s onto the summary field set.
func (s Service) Summary() ServiceSummary {
	return ServiceSummary{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		Version:     s.Version,
		Category:    s.Category,
		Status:      s.Status,
	}
}
