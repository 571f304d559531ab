// Package response defines the JSON envelopes written by every API route.
package response

import "github.com/deppfellow/apidocs-boilerplate/internal/errs"

// Success wraps a successful result.
type Success struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error is written by the global error handler.
type Error struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details []errs.FieldError `json:"details,omitempty"`
	Action  *errs.Action      `json:"action,omitempty"`
}

func OK(data any, message string) Success {
	return Success{Success: true, Data: data, Message: message}
}

func Fail(message, code string, details []errs.FieldError, action *errs.Action) Error {
	return Error{
		Success: false,
		Error:   message,
		Code:    code,
		Details: details,
		Action:  action,
	}
}

// FromHTTPError renders err. Messages not marked as overridable are replaced by the
// status text so internal details never reach the client.
func FromHTTPError(err *errs.HTTPError, fallback string) Error {
	message := err.Message
	if !err.Override && fallback != "" && err.Status >= 500 {
		message = fallback
	}
	return Fail(message, err.Code, err.Errors, err.Action)
}
