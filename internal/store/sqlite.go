package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite keeps the document in a single-row table with a version counter.
// The conditional update compares the version it read; a concurrent commit
// bumps the counter and the UPDATE matches zero rows. Suited to
// single-binary deployments; pair it with the in-process Memory broker.
type SQLite struct {
	db  *sql.DB
	key string
}

// NewSQLite opens (creating if needed) the database at path. key falls back
// to the package default when empty.
func NewSQLite(path, key string) (*SQLite, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, path[1:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	if key == "" {
		key = DefaultKey
	}
	s := &SQLite{db: db, key: key}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			version INTEGER NOT NULL DEFAULT 1
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the raw document, or nil when no row exists yet.
func (s *SQLite) Get(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put writes the document unconditionally, bumping the version so any
// in-flight conditional update loses.
func (s *SQLite) Put(ctx context.Context, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (key, value, version) VALUES (?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, version = documents.version + 1
	`, s.key, value)
	return err
}

// Update runs one optimistic cycle against the version counter.
func (s *SQLite) Update(ctx context.Context, fn UpdateFn) error {
	var current []byte
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, version FROM documents WHERE key = ?`, s.key).Scan(&current, &version)
	if errors.Is(err, sql.ErrNoRows) {
		current, version = nil, 0
	} else if err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	if version == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO documents (key, value, version) VALUES (?, ?, 1)
			ON CONFLICT(key) DO NOTHING
		`, s.key, next)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrConflict
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET value = ?, version = version + 1
		WHERE key = ? AND version = ?
	`, next, s.key, version)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
