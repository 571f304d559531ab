// Package lib groups integrations that do not belong to a single layer:
// the remote OpenAPI document fetcher (swagger), background jobs on asynq (job),
// transactional email through Resend (email) and small text helpers (utils).
package lib
