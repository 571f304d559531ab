// Package middleware stores global and route-specific middleware.
//
// It covers request ids, the request-scoped logger, New Relic tracing, Prometheus
// request metrics, the Redis backed rate limiter, optional Clerk auth and the global
// error handler that writes the error envelope.
package middleware
