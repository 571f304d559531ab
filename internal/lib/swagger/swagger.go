// Package swagger validates OpenAPI/Swagger documents and fetches them from remote URLs.
package swagger

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// InvalidDocumentError describes why a payload is not an OpenAPI or Swagger document.
type InvalidDocumentError struct {
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	return "invalid swagger document: " + e.Reason
}

// Validate accepts any JSON object carrying an "openapi" or "swagger" version key.
// The rest of the document is not inspected.
func Validate(doc json.RawMessage) error {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &InvalidDocumentError{Reason: "document is empty"}
	}

	if trimmed[0] != '{' {
		return &InvalidDocumentError{Reason: "document must be a JSON object"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return &InvalidDocumentError{Reason: fmt.Sprintf("document is not valid JSON: %v", err)}
	}

	if !hasVersion(fields, "openapi") && !hasVersion(fields, "swagger") {
		return &InvalidDocumentError{Reason: "document must declare an openapi or swagger version"}
	}

	return nil
}

// hasVersion treats null, false, 0 and "" as missing.
func hasVersion(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	switch string(bytes.TrimSpace(raw)) {
	case "null", "false", "0", `""`:
		return false
	}
	return true
}
