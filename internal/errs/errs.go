// Package errs defines the client-facing error variants of the API.
//
// Every failure that should reach the client as something other than a 500 is an
// *HTTPError built by one of the constructors in types.go: NotFound, Conflict,
// InvalidInput (bad request), UpstreamFetchFailure and the auth/rate-limit kinds.
// The global error handler turns them into the error envelope.
package errs
