package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// TimeoutError is returned when a request exceeds the client timeout.
type TimeoutError struct {
	Endpoint string
	After    time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.After)
}

// ShapeError reports a 2xx response that lacks a field the caller relies on.
type ShapeError struct {
	Field string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected response from server: missing %s", e.Field)
}

// errorMessage extracts a user-facing message from an error response body.
// The server's "error" field wins, then "detail"; anything else, including
// an unparseable body, becomes "HTTP <status>".
func errorMessage(status int, body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "detail"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
