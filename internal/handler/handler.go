// Package handler is the HTTP layer between the router and the services.
//
// Endpoints are typed functions run through Handle, which allocates the request value,
// binds path, query and body, validates it, calls the service and writes the success
// envelope. Failures are returned untouched to the global error handler. HandleRaw
// serves stored OpenAPI documents verbatim.
package handler
