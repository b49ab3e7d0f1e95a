// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable key-value persistence for voxchat.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrStoreClosed = errors.New("store is closed")
)

// =============================================================================
// STORE
// =============================================================================

// Store is a key-value store backed by a single SQLite database.
//
// It is single-writer by design: the UI interaction loop is the only mutator,
// so no locking is layered on top of the database's own.
type Store struct {
	db     *sql.DB
	closed bool
}

// schema creates the kv table on first open. Schema changes are additive;
// the version row lets a future migration know what it is looking at.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	name  TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
INSERT OR IGNORE INTO meta (name, value) VALUES ('schema_version', 1);
`

// Open opens (creating if necessary) the store at ~/.voxchat/voxchat.db.
func Open() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(homeDir, ".voxchat")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return OpenPath(filepath.Join(dir, "voxchat.db"))
}

// OpenPath opens a store at an explicit database path. Used by tests.
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// =============================================================================
// KV OPERATIONS
// =============================================================================

// Get returns the value stored under key. The second return is false when the
// key has never been written.
func (s *Store) Get(key string) (string, bool, error) {
	if s.closed {
		return "", false, ErrStoreClosed
	}

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

// GetOr returns the stored value for key, or fallback when absent or
// unreadable. Read failures here are deliberately non-fatal: a missing or
// broken value degrades to the default, never to an error surface.
func (s *Store) GetOr(key, fallback string) string {
	value, ok, err := s.Get(key)
	if err != nil || !ok {
		return fallback
	}
	return value
}

// Put writes value under key, replacing any previous value.
func (s *Store) Put(key, value string) error {
	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete removes key if present.
func (s *Store) Delete(key string) error {
	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}
