package api

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is a failure the backend reported inside a successful response.
type APIError struct {
	Method  string
	Path    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

// IsAPIError reports whether err is or wraps an *APIError.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// ValidationError lists why an input was rejected before sending.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}
