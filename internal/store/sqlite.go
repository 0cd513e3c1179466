// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/docchat/docchat-tui/internal/model"
)

// =============================================================================
// SQLITE PERSISTER
// =============================================================================

const (
	kvKeySessions = "sessions"
	kvKeyActive   = "active_session"
	kvKeyTheme    = "theme"
)

// SQLitePersister stores the snapshot in a small key-value table inside a
// single SQLite database file. The schema mirrors the file persister's
// layout: one row for the serialized session collection, one for the
// active-session pointer, one for the theme key.
type SQLitePersister struct {
	db   *sql.DB
	path string
}

// NewSQLitePersister opens (or creates) the database at path and ensures
// the schema exists.
func NewSQLitePersister(path string) (*SQLitePersister, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection avoids SQLITE_BUSY on concurrent snapshot writes.
	db.SetMaxOpenConns(1)

	schema := `CREATE TABLE IF NOT EXISTS snapshot (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLitePersister{db: db, path: path}, nil
}

// Close releases the database handle.
func (p *SQLitePersister) Close() error {
	return p.db.Close()
}

// Load reads the persisted snapshot. A database without a sessions row is
// treated as never-saved.
func (p *SQLitePersister) Load() (*Snapshot, error) {
	raw, ok, err := p.get(kvKeySessions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var sessions []*model.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, fmt.Errorf("corrupt session data: %w", err)
	}

	snap := &Snapshot{Sessions: sessions}
	if v, ok, err := p.get(kvKeyActive); err == nil && ok {
		snap.ActiveID = v
	}
	if v, ok, err := p.get(kvKeyTheme); err == nil && ok {
		snap.Theme = v
	}
	return snap, nil
}

// Save writes the snapshot in a single transaction.
func (p *SQLitePersister) Save(snap *Snapshot) error {
	data, err := json.Marshal(snap.Sessions)
	if err != nil {
		return err
	}

	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsert := `INSERT INTO snapshot (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	for _, kv := range []struct{ key, value string }{
		{kvKeySessions, string(data)},
		{kvKeyActive, snap.ActiveID},
		{kvKeyTheme, snap.Theme},
	} {
		if _, err := tx.Exec(upsert, kv.key, kv.value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// get reads one key; ok is false when the row does not exist.
func (p *SQLitePersister) get(key string) (string, bool, error) {
	var value string
	err := p.db.QueryRow(`SELECT value FROM snapshot WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
