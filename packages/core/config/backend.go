package config

import "strings"

const (
	// DefaultBackendURL is used when no backend URL is configured
	DefaultBackendURL = "http://127.0.0.1:8000"

	// BackendURLEnv is the environment variable holding the backend URL
	BackendURLEnv = "STUDYHUB_BACKEND_URL"
)

// Backend is the resolved backend location. It is computed once and never changes.
type Backend struct {
	raw     string
	baseURL string
}

// NewBackend resolves raw into a Backend, remembering whether raw was set at all.
func NewBackend(raw string) Backend {
	return Backend{
		raw:     raw,
		baseURL: ResolveBaseURL(raw),
	}
}

// BaseURL returns the URL every relative request path is joined onto.
func (b Backend) BaseURL() string {
	// zero Backend behaves like an unset one
	if b.raw == "" {
		return DefaultBackendURL
	}
	return b.baseURL
}

// IsConfigured reports whether a backend URL was supplied, even though
// BaseURL always returns something usable.
func (b Backend) IsConfigured() bool {
	return b.raw != ""
}

// ResolveBaseURL substitutes DefaultBackendURL for an empty value and strips
// trailing slashes.
func ResolveBaseURL(raw string) string {
	if raw == "" {
		raw = DefaultBackendURL
	}
	return strings.TrimRight(raw, "/")
}
