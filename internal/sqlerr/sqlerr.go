// Package sqlerr translates PostgreSQL driver errors into errs.HTTPError values.
//
// A unique violation (for example a duplicate live slug racing past the service check)
// becomes a Conflict, constraint failures become bad requests and pgx.ErrNoRows becomes
// NotFound. Anything else is an internal error.
package sqlerr
