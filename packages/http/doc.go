// Package http provides the HTTP client studyhub uses to talk to the backend.
//
// It wraps resty with the behavior every call shares:
//   - Base URL resolution and a 30 second timeout
//   - A JSON Content-Type default header
//   - Bearer token injection from a TokenSource before each request
//   - Failure classification (Classify) kept apart from the reactions to it:
//     clearing the token and navigating to /login on 401, logging network
//     failures
//
// Every failure reaches the caller as an *Error; reactions run alongside
// propagation, never instead of it.
package http
