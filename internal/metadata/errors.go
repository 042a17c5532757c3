package metadata

import (
	"errors"
	"fmt"
)

// Common errors returned by the metadata client.
var (
	// ErrNotFound indicates the work was not found in the registry.
	ErrNotFound = errors.New("not found in metadata registry")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("metadata registry rate limit exceeded")

	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("metadata registry API error")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with metadata registry")
)

// APIError represents an error response from the metadata registry.
type APIError struct {
	StatusCode int
	Message    string
	Query      string // for context in lookup errors
}

func (e *APIError) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("metadata API error (status %d): %s (query: %s)", e.StatusCode, e.Message, e.Query)
	}
	return fmt.Sprintf("metadata API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error indicates a missing work.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
