// Package session persists small pieces of local state between runs, most
// importantly the supervisor identity cached at login.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xeno347/supervisor-final/internal/interfaces"

	_ "modernc.org/sqlite"
)

// Keys written by the login flow.
const (
	KeySupervisorID   = "supervisor_id"
	KeySupervisorName = "supervisor_name"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("session: key not found")

// Store is a sqlite-backed key/value store.
type Store struct {
	db *sql.DB
}

var _ interfaces.IdentityProvider = (*Store)(nil)

// Open opens (or creates) the store at path. Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// SupervisorID implements interfaces.IdentityProvider. Read errors are treated
// as "no identity".
func (s *Store) SupervisorID(ctx context.Context) (string, bool) {
	v, err := s.Get(ctx, KeySupervisorID)
	if err != nil {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Static is a fixed identity, e.g. from configuration.
type Static string

var _ interfaces.IdentityProvider = Static("")

func (s Static) SupervisorID(context.Context) (string, bool) {
	v := strings.TrimSpace(string(s))
	return v, v != ""
}

// FirstOf returns the first provider that has an identity.
type FirstOf []interfaces.IdentityProvider

func (f FirstOf) SupervisorID(ctx context.Context) (string, bool) {
	for _, p := range f {
		if p == nil {
			continue
		}
		if id, ok := p.SupervisorID(ctx); ok {
			return id, true
		}
	}
	return "", false
}
