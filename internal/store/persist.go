// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/docchat/docchat-tui/internal/model"
	"github.com/docchat/docchat-tui/internal/util"
)

// =============================================================================
// SNAPSHOT AND PERSISTER PORT
// =============================================================================

// Snapshot is the durable representation of the store: the full ordered
// session collection, the active-session pointer, and the selected theme key.
type Snapshot struct {
	Sessions []*model.Session `json:"sessions"`
	ActiveID string           `json:"activeSessionId"`
	Theme    string           `json:"theme"`
}

// Persister is the persistence port for the session store. Load returns
// (nil, nil) when no snapshot has ever been saved; a non-nil error means the
// stored data exists but could not be read back.
type Persister interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
}

// =============================================================================
// FILE PERSISTER
// =============================================================================

const (
	sessionsFile = "sessions.json"
	activeFile   = "active_session"
	themeFile    = "theme"
)

// FilePersister stores the snapshot as JSON files in a directory: the
// session collection in one flat file, the active-session pointer and theme
// key in small sidecar files. Writes are atomic with fsync.
type FilePersister struct {
	// Dir is the data directory, e.g. ~/.docchat
	Dir string
}

// NewFilePersister creates a file persister rooted at dir.
func NewFilePersister(dir string) (*FilePersister, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FilePersister{Dir: dir}, nil
}

// Load reads the persisted snapshot.
func (p *FilePersister) Load() (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(p.Dir, sessionsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var sessions []*model.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, err
	}

	snap := &Snapshot{Sessions: sessions}

	// The pointer and theme sidecars are best-effort: a missing or
	// unreadable one degrades to the empty value, never to an error.
	if raw, err := os.ReadFile(filepath.Join(p.Dir, activeFile)); err == nil {
		snap.ActiveID = strings.TrimSpace(string(raw))
	}
	if raw, err := os.ReadFile(filepath.Join(p.Dir, themeFile)); err == nil {
		snap.Theme = strings.TrimSpace(string(raw))
	}

	return snap, nil
}

// Save writes the snapshot to disk.
func (p *FilePersister) Save(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap.Sessions, "", "  ")
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(filepath.Join(p.Dir, sessionsFile), data, 0644); err != nil {
		return err
	}
	if err := util.AtomicWriteFile(filepath.Join(p.Dir, activeFile), []byte(snap.ActiveID), 0644); err != nil {
		return err
	}
	return util.AtomicWriteFile(filepath.Join(p.Dir, themeFile), []byte(snap.Theme), 0644)
}

// =============================================================================
// MEMORY PERSISTER
// =============================================================================

// MemPersister keeps the snapshot in memory. Used in tests and as a
// fallback when no durable directory is available.
type MemPersister struct {
	snap *Snapshot

	// FailSaves makes Save return an error, for exercising the
	// log-and-continue path.
	FailSaves bool

	// SaveCount counts successful saves.
	SaveCount int
}

// Load returns the last saved snapshot.
func (p *MemPersister) Load() (*Snapshot, error) {
	return p.snap, nil
}

// Save stores the snapshot.
func (p *MemPersister) Save(snap *Snapshot) error {
	if p.FailSaves {
		return errors.New("save disabled")
	}
	p.snap = snap
	p.SaveCount++
	return nil
}
