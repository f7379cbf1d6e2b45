package client

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// APIError represents a structured error response from the API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("backoffice: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("backoffice: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func statusOf(err error) int {
	var e *APIError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 not found.
func IsNotFound(err error) bool { return statusOf(err) == 404 }

// IsConflict reports whether err is a 409 conflict (duplicate e-mail or number).
func IsConflict(err error) bool { return statusOf(err) == 409 }

// IsValidation reports whether err is a 400 rejection of the request parameters.
func IsValidation(err error) bool { return statusOf(err) == 400 }

// IsForbidden reports whether err is a 403 (inactive account or missing role).
func IsForbidden(err error) bool { return statusOf(err) == 403 }

// IsRateLimited reports whether err is a 429 rate limit.
func IsRateLimited(err error) bool { return statusOf(err) == 429 }

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}
	return apiErr
}
