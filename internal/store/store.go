// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"log"
	"sync"

	"github.com/docchat/docchat-tui/internal/model"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// Store owns the session collection and the active-session pointer.
// Every mutation is followed by a best-effort persist; a failed write is
// logged and the in-memory state stays authoritative for the rest of
// the process lifetime.
type Store struct {
	mu        sync.Mutex
	persister Persister
	logger    *log.Logger

	// sessions is ordered newest-first; index 0 is the most recently
	// created session.
	sessions []*model.Session
	activeID string
	theme    string
}

// New creates a store backed by the given persister. A nil logger
// discards persistence diagnostics.
func New(persister Persister, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(discardWriter{}, "", 0)
	}
	return &Store{
		persister: persister,
		logger:    logger,
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Load restores persisted state. When nothing was ever saved, the data
// is malformed, or the snapshot holds zero sessions, the store starts
// with exactly one fresh empty session marked active.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.persister.Load()
	if err != nil {
		s.logger.Printf("store: failed to load sessions, starting fresh: %v", err)
		s.resetLocked()
		return
	}
	if snap == nil || len(snap.Sessions) == 0 {
		s.resetLocked()
		return
	}

	s.sessions = snap.Sessions
	s.theme = snap.Theme

	// The persisted active pointer may reference a session that no
	// longer exists. Fall back to the newest one.
	s.activeID = ""
	for _, sess := range s.sessions {
		if sess.ID == snap.ActiveID {
			s.activeID = snap.ActiveID
			break
		}
	}
	if s.activeID == "" {
		s.activeID = s.sessions[0].ID
	}
}

// resetLocked replaces all state with a single fresh active session.
// Caller must hold s.mu.
func (s *Store) resetLocked() {
	fresh := model.NewSession()
	s.sessions = []*model.Session{fresh}
	s.activeID = fresh.ID
	s.persistLocked()
}

// NewSession creates an empty session, places it at the front of the
// list, and makes it active. Returns the new session's ID.
func (s *Store) NewSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := model.NewSession()
	s.sessions = append([]*model.Session{fresh}, s.sessions...)
	s.activeID = fresh.ID
	s.persistLocked()
	return fresh.ID
}

// SwitchSession makes the session with the given ID active. Switching
// to an unknown ID or to the already-active session is a silent no-op.
func (s *Store) SwitchSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.activeID {
		return
	}
	for _, sess := range s.sessions {
		if sess.ID == id {
			s.activeID = id
			s.persistLocked()
			return
		}
	}
}

// DeleteSession removes the session with the given ID. When the active
// session is deleted, the first remaining session becomes active; when
// the last session is deleted, a fresh empty session is created and
// activated so there is always an active session.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, sess := range s.sessions {
		if sess.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)

	if len(s.sessions) == 0 {
		fresh := model.NewSession()
		s.sessions = []*model.Session{fresh}
		s.activeID = fresh.ID
	} else if id == s.activeID {
		s.activeID = s.sessions[0].ID
	}
	s.persistLocked()
}

// ReplaceMessages swaps the full message list of a session. This is the
// sole mutation path for transcripts: callers build the new list and
// hand it over whole. The messages are cloned on the way in so later
// caller mutations cannot leak into store state.
func (s *Store) ReplaceMessages(sessionID string, messages []*model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.ID == sessionID {
			sess.Messages = model.CloneMessages(messages)
			sess.Touch()
			s.persistLocked()
			return
		}
	}
}

// Sessions returns a snapshot of all sessions, newest first. The
// returned sessions are clones; mutating them does not affect the store.
func (s *Store) Sessions() []*model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Active returns a clone of the active session. The store guarantees an
// active session exists after Load.
func (s *Store) Active() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.ID == s.activeID {
			return sess.Clone()
		}
	}
	return nil
}

// ActiveID returns the active session's ID.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Session returns a clone of the session with the given ID, or nil.
func (s *Store) Session(id string) *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess.Clone()
		}
	}
	return nil
}

// Count returns the number of sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Theme returns the persisted theme name, which may be empty.
func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme records and persists the theme name.
func (s *Store) SetTheme(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = name
	s.persistLocked()
}

// persistLocked saves the current state. Failures are logged, never
// surfaced. Caller must hold s.mu.
func (s *Store) persistLocked() {
	snap := &Snapshot{
		Sessions: s.sessions,
		ActiveID: s.activeID,
		Theme:    s.theme,
	}
	if err := s.persister.Save(snap); err != nil {
		s.logger.Printf("store: failed to persist sessions: %v", err)
	}
}
