package token

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStore keeps the credential in a key/value table of a SQLite database
type SQLiteStore struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewSQLiteStore opens (and if needed creates) the database named by
// connectionString and makes sure the kv table exists
func NewSQLiteStore(connectionString string) (*SQLiteStore, error) {
	dsn, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; concurrent 401s all delete the same row
	db.SetMaxOpenConns(1)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create token table: %w", err)
	}

	return &SQLiteStore{
		db:           db,
		queryTimeout: 5 * time.Second,
	}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get retrieves the token
func (s *SQLiteStore) Get(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, Key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	return value, nil
}

// Set stores the token
func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		Key, token)
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Delete removes the token
func (s *SQLiteStore) Delete(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, Key); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// parseConnectionString turns sqlite://path or sqlite:path into a DSN
func parseConnectionString(connStr string) (string, error) {
	connStr = strings.TrimSpace(connStr)

	var dsn string
	switch {
	case strings.HasPrefix(connStr, "sqlite://"):
		dsn = strings.TrimPrefix(connStr, "sqlite://")
	case strings.HasPrefix(connStr, "sqlite:"):
		dsn = strings.TrimPrefix(connStr, "sqlite:")
	default:
		return "", fmt.Errorf("unsupported database scheme: %s", connStr)
	}

	if dsn == "" {
		return "", fmt.Errorf("missing database path: %s", connStr)
	}
	return dsn, nil
}
