// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat/docchat-tui/internal/model"
	"github.com/docchat/docchat-tui/internal/sanitize"
	"github.com/docchat/docchat-tui/internal/store"
	"github.com/docchat/docchat-tui/internal/turn"
	"github.com/docchat/docchat-tui/internal/util"
)

type stubGenerator struct {
	reply string
	block chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, _, _, _ string) (string, error) {
	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.reply, nil
}

func newTestModel(t *testing.T, gen turn.Generator) (*Model, *store.Store) {
	t.Helper()
	st := store.New(&store.MemPersister{}, nil)
	st.Load()
	orch := turn.New(st, gen, sanitize.Default(), turn.Options{
		Model:          "mistral",
		RequestTimeout: 5 * time.Second,
		RevealInterval: time.Millisecond,
	})
	m := New(Options{
		Store:     st,
		Orch:      orch,
		ModelName: "mistral",
		ThemeName: "dark",
	})
	m.resize(100, 30)
	return m, st
}

func TestNewInitializesComponents(t *testing.T) {
	m, _ := newTestModel(t, &stubGenerator{reply: "ok"})

	assert.NotNil(t, m.Init())
	assert.Equal(t, "dark", m.theme.Name())
	assert.True(t, m.input.Focused())
}

func TestEmptyTranscriptShowsPlaceholder(t *testing.T) {
	m, _ := newTestModel(t, &stubGenerator{reply: "ok"})

	out := m.renderTranscript()
	assert.Contains(t, out, "Start the conversation")
}

func TestTranscriptRendersRoles(t *testing.T) {
	m, st := newTestModel(t, &stubGenerator{reply: "ok"})
	st.ReplaceMessages(st.ActiveID(), []*model.Message{
		model.NewUserMessage("Hello"),
		model.NewMessage(model.RoleAssistant, "Hi there"),
	})

	out := m.renderTranscript()
	assert.Contains(t, out, "You")
	assert.Contains(t, out, "Assistant")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "Hi there")
}

func TestRevealPrefixShownWithCursor(t *testing.T) {
	m, st := newTestModel(t, &stubGenerator{reply: "ok"})
	placeholder := model.NewAssistantPlaceholder()
	st.ReplaceMessages(st.ActiveID(), []*model.Message{
		model.NewUserMessage("Hello"),
		placeholder,
	})
	m.revealSessionID = st.ActiveID()
	m.revealMessageID = placeholder.ID
	m.revealPrefix = "Hi th"

	out := m.renderTranscript()
	assert.Contains(t, out, "Hi th")
	assert.Contains(t, out, revealCursor)
}

func TestRevealTickForInactiveSessionIsDropped(t *testing.T) {
	m, st := newTestModel(t, &stubGenerator{reply: "ok"})
	originID := st.ActiveID()
	st.NewSession()

	_, _ = m.Update(RevealTickMsg{SessionID: originID, MessageID: "x", Prefix: "partial"})

	assert.Equal(t, "", m.revealPrefix)
}

func TestRevealTickAfterCommitIsDropped(t *testing.T) {
	m, st := newTestModel(t, &stubGenerator{reply: "ok"})
	reply := model.NewMessage(model.RoleAssistant, "the whole reply")
	st.ReplaceMessages(st.ActiveID(), []*model.Message{
		model.NewUserMessage("Hello"),
		reply,
	})

	// A tick queued behind the final commit must not regress the
	// transcript to a partial prefix.
	_, _ = m.Update(RevealTickMsg{SessionID: st.ActiveID(), MessageID: reply.ID, Prefix: "the wh"})

	assert.Equal(t, "", m.revealPrefix)
	assert.Equal(t, "", m.revealMessageID)
}

func TestSubmitWhileBusyShowsNotice(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	m, _ := newTestModel(t, &stubGenerator{reply: "ok", block: block})

	m.input.SetValue("first")
	m.submit()
	require.True(t, m.orch.Busy())

	m.input.SetValue("second")
	m.submit()
	assert.Contains(t, m.errNotice, "Still answering")
	// The rejected text stays in the input for resubmission.
	assert.Equal(t, "second", m.input.Value())
}

func TestSubmitEmptyIsNoOp(t *testing.T) {
	m, st := newTestModel(t, &stubGenerator{reply: "ok"})

	m.input.SetValue("   ")
	cmd := m.submit()

	assert.Nil(t, cmd)
	assert.True(t, st.Active().IsEmpty())
}

func TestAttachWithoutPathShowsUsage(t *testing.T) {
	m, _ := newTestModel(t, &stubGenerator{reply: "ok"})

	m.input.SetValue("/attach   ")
	m.submit()
	assert.Contains(t, m.errNotice, "Usage")
}

func TestSwitchRelativeClampsAtEnds(t *testing.T) {
	m, st := newTestModel(t, &stubGenerator{reply: "ok"})
	firstID := st.ActiveID()
	secondID := st.NewSession()

	// Newest first: active is index 0, moving up is clamped.
	m.switchRelative(-1)
	assert.Equal(t, secondID, st.ActiveID())

	m.switchRelative(1)
	assert.Equal(t, firstID, st.ActiveID())

	m.switchRelative(1)
	assert.Equal(t, firstID, st.ActiveID())
}

func TestCycleThemePersists(t *testing.T) {
	m, st := newTestModel(t, &stubGenerator{reply: "ok"})

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})

	assert.NotEqual(t, "dark", m.theme.Name())
	assert.Equal(t, m.theme.Name(), st.Theme())
}

func TestDeleteSessionKeepsOneActive(t *testing.T) {
	m, st := newTestModel(t, &stubGenerator{reply: "ok"})

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})

	assert.Equal(t, 1, st.Count())
	assert.NotNil(t, st.Active())
}

func TestTurnErrorShowsFailureNotice(t *testing.T) {
	m, _ := newTestModel(t, &stubGenerator{reply: "ok"})

	_, _ = m.Update(TurnErrorMsg{SessionID: "s", Err: context.DeadlineExceeded})

	assert.Equal(t, turn.FailureNotice, m.errNotice)
}

func TestSidebarHighlightSpansColumn(t *testing.T) {
	m, st := newTestModel(t, &stubGenerator{reply: "ok"})
	st.ReplaceMessages(st.ActiveID(), []*model.Message{model.NewUserMessage("Hello")})

	out := m.renderSidebar()
	assert.Contains(t, out, util.PadRight("> Hello", sidebarWidth-3))
}

func TestHeaderRightAlignsMeta(t *testing.T) {
	m, _ := newTestModel(t, &stubGenerator{reply: "ok"})

	out := m.renderHeader()
	assert.Contains(t, out, "docchat")
	assert.Contains(t, out, "mistral · dark")
	// The meta sits against the right edge, not next to the title.
	assert.Greater(t, strings.Index(out, "mistral"), 50)
}

func TestViewRendersAllRegions(t *testing.T) {
	m, st := newTestModel(t, &stubGenerator{reply: "ok"})
	st.ReplaceMessages(st.ActiveID(), []*model.Message{model.NewUserMessage("Hello")})
	m.refreshTranscript()

	out := m.View()
	assert.Contains(t, out, "docchat")
	assert.Contains(t, out, "Chats (1)")
	assert.True(t, strings.Contains(out, ">"))
}
