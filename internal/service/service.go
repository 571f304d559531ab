// Package service contains the business rules on top of the repositories.
//
// EntityService is shared by every entity: existence checks, slug derivation and
// uniqueness, pagination defaults and translation of store errors into errs variants.
// CatalogService adds OpenAPI document resolution for the services catalog.
package service
