// Package token stores the bearer credential the studyhub client sends with
// every request.
//
// A Store holds a single value under Key. The value is written on sign in,
// read on every request and removed on sign out or when the backend answers
// 401. Stores are safe for concurrent use.
package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Key is the fixed storage key of the credential
const Key = "token"

// ErrNotFound is returned by Get when no credential is stored
var ErrNotFound = errors.New("token: not found")

// Store is a persistent key-value slot for the credential.
type Store interface {
	// Get returns the stored token or ErrNotFound
	Get(ctx context.Context) (string, error)
	// Set stores the token, replacing any previous value
	Set(ctx context.Context, token string) error
	// Delete removes the token. Deleting a missing token is not an error.
	Delete(ctx context.Context) error
}

// Open creates a Store from a connection string.
// Supported formats:
// - memory: (or empty)
// - sqlite://path/to/db.sqlite
// - sqlite:./tokens.db
// - file://path/to/token.json
// - path/to/token.json
func Open(conn string) (Store, error) {
	conn = strings.TrimSpace(conn)

	switch {
	case conn == "" || conn == "memory:":
		return NewMemoryStore(), nil
	case strings.HasPrefix(conn, "sqlite:"):
		s, err := NewSQLiteStore(conn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case strings.Contains(conn, "://") && !strings.HasPrefix(conn, "file://"):
		return nil, fmt.Errorf("unsupported token store: %s", conn)
	default:
		s, err := NewFileStore(strings.TrimPrefix(conn, "file://"))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
