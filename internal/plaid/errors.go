package plaid

import (
	"encoding/json"
	"fmt"
)

// APIError is a remote failure reported by the Plaid API.
type APIError struct {
	// Op is the API path that failed.
	Op string

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// ErrorType and ErrorCode are Plaid's machine-readable classification.
	ErrorType string `json:"error_type"`
	ErrorCode string `json:"error_code"`

	// ErrorMessage is Plaid's developer-facing description.
	ErrorMessage string `json:"error_message"`

	// RequestID identifies the request for support purposes.
	RequestID string `json:"request_id"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("plaid %s failed: %s (%s)", e.Op, e.ErrorMessage, e.ErrorCode)
	}
	return fmt.Sprintf("plaid %s failed with status %d", e.Op, e.StatusCode)
}

// decodeAPIError builds an *APIError from a non-2xx response body. Bodies
// that do not carry Plaid's error envelope still produce a status-only error.
func decodeAPIError(path string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Op:         path,
		StatusCode: statusCode,
	}
	_ = json.Unmarshal(body, apiErr)
	return apiErr
}
