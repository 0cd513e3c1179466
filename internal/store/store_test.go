// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat/docchat-tui/internal/model"
)

func newTestStore(t *testing.T) (*Store, *MemPersister) {
	t.Helper()
	mem := &MemPersister{}
	s := New(mem, nil)
	s.Load()
	return s, mem
}

func TestLoadFreshStart(t *testing.T) {
	s, _ := newTestStore(t)

	require.Equal(t, 1, s.Count())
	active := s.Active()
	require.NotNil(t, active)
	assert.True(t, active.IsEmpty())
	assert.Equal(t, active.ID, s.ActiveID())
}

func TestLoadMalformedDataStartsFresh(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionsFile), []byte("{not json"), 0644))

	fp, err := NewFilePersister(dir)
	require.NoError(t, err)

	s := New(fp, nil)
	s.Load()

	// Exactly one empty session, and it is active.
	require.Equal(t, 1, s.Count())
	active := s.Active()
	require.NotNil(t, active)
	assert.True(t, active.IsEmpty())
}

func TestLoadRestoresSessionsAndActivePointer(t *testing.T) {
	first := model.NewSession()
	second := model.NewSession()
	mem := &MemPersister{}
	require.NoError(t, mem.Save(&Snapshot{
		Sessions: []*model.Session{first, second},
		ActiveID: second.ID,
		Theme:    "light",
	}))

	s := New(mem, nil)
	s.Load()

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, second.ID, s.ActiveID())
	assert.Equal(t, "light", s.Theme())
}

func TestLoadDanglingActivePointerFallsBack(t *testing.T) {
	first := model.NewSession()
	mem := &MemPersister{}
	require.NoError(t, mem.Save(&Snapshot{
		Sessions: []*model.Session{first},
		ActiveID: "no-such-session",
	}))

	s := New(mem, nil)
	s.Load()

	assert.Equal(t, first.ID, s.ActiveID())
}

func TestNewSessionGoesToFrontAndActivates(t *testing.T) {
	s, _ := newTestStore(t)
	originalID := s.ActiveID()

	newID := s.NewSession()

	require.Equal(t, 2, s.Count())
	assert.Equal(t, newID, s.ActiveID())
	sessions := s.Sessions()
	assert.Equal(t, newID, sessions[0].ID)
	assert.Equal(t, originalID, sessions[1].ID)
}

func TestSwitchSession(t *testing.T) {
	s, _ := newTestStore(t)
	firstID := s.ActiveID()
	secondID := s.NewSession()

	s.SwitchSession(firstID)
	assert.Equal(t, firstID, s.ActiveID())

	// Unknown ID is a silent no-op.
	s.SwitchSession("no-such-session")
	assert.Equal(t, firstID, s.ActiveID())

	s.SwitchSession(secondID)
	assert.Equal(t, secondID, s.ActiveID())
}

func TestDeleteActiveSessionActivatesRemaining(t *testing.T) {
	s, _ := newTestStore(t)
	firstID := s.ActiveID()
	secondID := s.NewSession()

	s.DeleteSession(secondID)

	require.Equal(t, 1, s.Count())
	assert.Equal(t, firstID, s.ActiveID())
}

func TestDeleteLastSessionCreatesFreshActive(t *testing.T) {
	s, _ := newTestStore(t)
	onlyID := s.ActiveID()

	s.DeleteSession(onlyID)

	// Deleting the active session always leaves some session active.
	require.Equal(t, 1, s.Count())
	active := s.Active()
	require.NotNil(t, active)
	assert.NotEqual(t, onlyID, active.ID)
	assert.True(t, active.IsEmpty())
}

func TestDeleteInactiveSessionKeepsActive(t *testing.T) {
	s, _ := newTestStore(t)
	firstID := s.ActiveID()
	secondID := s.NewSession()
	s.SwitchSession(firstID)

	s.DeleteSession(secondID)

	assert.Equal(t, firstID, s.ActiveID())
}

func TestDeleteUnknownSessionIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)

	s.DeleteSession("no-such-session")

	assert.Equal(t, 1, s.Count())
}

func TestReplaceMessages(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.ActiveID()

	msgs := []*model.Message{
		model.NewUserMessage("Hello"),
		model.NewMessage(model.RoleAssistant, "Hi there"),
	}
	s.ReplaceMessages(id, msgs)

	active := s.Active()
	require.Equal(t, 2, active.MessageCount())
	assert.Equal(t, "Hello", active.Messages[0].Content)

	// The store holds clones: mutating the caller's slice must not
	// leak into store state.
	msgs[0].Content = "mutated"
	assert.Equal(t, "Hello", s.Active().Messages[0].Content)
}

func TestReplaceMessagesUnknownSessionIsNoOp(t *testing.T) {
	s, mem := newTestStore(t)
	before := mem.SaveCount

	s.ReplaceMessages("no-such-session", []*model.Message{model.NewUserMessage("x")})

	assert.Equal(t, before, mem.SaveCount)
}

func TestAccessorsReturnClones(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.ActiveID()
	s.ReplaceMessages(id, []*model.Message{model.NewUserMessage("original")})

	s.Active().Messages[0].Content = "tampered"
	s.Sessions()[0].Messages[0].Content = "tampered"

	assert.Equal(t, "original", s.Active().Messages[0].Content)
}

func TestPersistFailureDoesNotBlockMutations(t *testing.T) {
	mem := &MemPersister{FailSaves: true}
	s := New(mem, nil)
	s.Load()

	id := s.NewSession()
	s.ReplaceMessages(id, []*model.Message{model.NewUserMessage("Hello")})

	// In-memory state stays authoritative despite every save failing.
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 1, s.Active().MessageCount())
}

func TestThemePersistence(t *testing.T) {
	s, mem := newTestStore(t)

	s.SetTheme("light")
	assert.Equal(t, "light", s.Theme())
	assert.Equal(t, "light", mem.snap.Theme)
}

func TestFilePersisterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFilePersister(dir)
	require.NoError(t, err)

	s := New(fp, nil)
	s.Load()
	id := s.ActiveID()
	s.ReplaceMessages(id, []*model.Message{model.NewUserMessage("persist me")})
	s.SetTheme("dark")

	reloaded := New(fp, nil)
	reloaded.Load()

	require.Equal(t, 1, reloaded.Count())
	assert.Equal(t, id, reloaded.ActiveID())
	assert.Equal(t, "persist me", reloaded.Active().Messages[0].Content)
	assert.Equal(t, "dark", reloaded.Theme())
}

func TestSQLitePersisterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docchat.db")
	sp, err := NewSQLitePersister(path)
	require.NoError(t, err)
	defer sp.Close()

	// Never-saved database reads back as nil.
	snap, err := sp.Load()
	require.NoError(t, err)
	assert.Nil(t, snap)

	sess := model.NewSession()
	sess.Messages = []*model.Message{model.NewUserMessage("stored")}
	require.NoError(t, sp.Save(&Snapshot{
		Sessions: []*model.Session{sess},
		ActiveID: sess.ID,
		Theme:    "light",
	}))

	snap, err = sp.Load()
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, sess.ID, snap.ActiveID)
	assert.Equal(t, "light", snap.Theme)
	assert.Equal(t, "stored", snap.Sessions[0].Messages[0].Content)
}
