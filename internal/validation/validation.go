// Package validation binds echo requests into typed payloads and validates them.
//
// Rules live in `validate` struct tags (go-playground/validator) plus a few custom tags
// registered here, e.g. "slug". Failures are returned as a bad request carrying one
// FieldError per invalid field.
package validation
