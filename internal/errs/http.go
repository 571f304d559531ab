package errs

import "strings"

// FieldError describes a single invalid request field.
//
// It is rendered inside the "details" array of the error envelope, for example:
//
//	{"field": "name", "error": "must be at least 3 characters"}
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType tells the client what it should do after receiving an error.
type ActionType string

const (
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional client hint attached to an error, e.g. redirect to a login page.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the single error type every layer returns when the failure has a meaning
// for the client.
//
// The set of variants is closed: each constructor in types.go produces one tagged kind
// (Code) with its canonical Status. The global error handler only reads these fields, it
// never inspects the error chain of the underlying cause.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`

	// Override marks Message as safe to show to end users verbatim.
	Override bool `json:"override"`

	Errors []FieldError `json:"errors"`
	Action *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError, so errors.Is(err, &HTTPError{}) answers
// "is this a client-facing error at all".
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy with a different message and the same kind.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// MakeUpperCaseWithUnderscores turns "Not Found" into "NOT_FOUND".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
