// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat/docchat-tui/internal/fileproc"
	"github.com/docchat/docchat-tui/internal/turn"
)

// noticeWindow is how long transient banners stay on screen.
const noticeWindow = 4 * time.Second

// attachPrefix starts the document attachment command.
const attachPrefix = "/attach "

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshTranscript()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case RevealTickMsg:
		// Ticks for a session the user has switched away from are
		// dropped; the final text still lands in that session. A tick
		// queued behind an early commit is also dropped, so a skipped
		// reveal never regresses to a partial prefix.
		if msg.SessionID == m.store.ActiveID() && !m.messageCommitted(msg.SessionID, msg.MessageID) {
			m.waiting = false
			m.revealSessionID = msg.SessionID
			m.revealMessageID = msg.MessageID
			m.revealPrefix = msg.Prefix
			m.refreshTranscript()
			m.viewport.GotoBottom()
		}
		return m, nil

	case TurnDoneMsg:
		m.waiting = false
		m.revealSessionID = ""
		m.revealMessageID = ""
		m.revealPrefix = ""
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case TurnErrorMsg:
		m.waiting = false
		m.revealSessionID = ""
		m.revealMessageID = ""
		m.revealPrefix = ""
		m.refreshTranscript()
		return m, m.showError(turn.FailureNotice)

	case FileStagedMsg:
		return m, m.showInfo("Attached " + msg.Label + " (used on your next message)")

	case FileErrorMsg:
		notice := "Could not attach file"
		if errors.Is(msg.Err, fileproc.ErrUnsupportedType) {
			notice = fileproc.UnsupportedNotice
		}
		m.logger.Printf("ui: attach failed: %v", msg.Err)
		return m, m.showError(notice)

	case dismissNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.errNotice = ""
			m.infoNotice = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Route remaining messages to the focused components.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes one key press. Returns handled=false for keys that
// should fall through to the input component.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true
		m.orch.Shutdown()
		return tea.Quit, true

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit(), true

	case key.Matches(msg, m.keyMap.NewSession):
		m.orch.FinishNow()
		m.store.NewSession()
		m.refreshTranscript()
		return nil, true

	case key.Matches(msg, m.keyMap.PrevSession):
		m.switchRelative(-1)
		return nil, true

	case key.Matches(msg, m.keyMap.NextSession):
		m.switchRelative(1)
		return nil, true

	case key.Matches(msg, m.keyMap.DeleteSess):
		m.orch.FinishNow()
		m.store.DeleteSession(m.store.ActiveID())
		m.refreshTranscript()
		return nil, true

	case key.Matches(msg, m.keyMap.SkipReveal):
		m.orch.FinishNow()
		return nil, true

	case key.Matches(msg, m.keyMap.CycleTheme):
		m.theme = m.theme.Next()
		m.spinner.Style = m.theme.Spinner
		m.store.SetTheme(m.theme.Name())
		m.rebuildRenderer(m.transcriptWidth())
		m.refreshTranscript()
		return nil, true

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.LineUp(1)
		return nil, true

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.LineDown(1)
		return nil, true

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return nil, true

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return nil, true
	}

	return nil, false
}

// submit handles Enter: either an /attach command or a chat submission.
func (m *Model) submit() tea.Cmd {
	raw := m.input.Value()
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, attachPrefix) {
		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, attachPrefix))
		if rest == "" {
			return m.showError("Usage: /attach <file.pdf> [question]")
		}
		// Anything after the path becomes the extraction query.
		path, pending := rest, ""
		if fields := strings.SplitN(rest, " ", 2); len(fields) == 2 {
			path = fields[0]
			pending = strings.TrimSpace(fields[1])
		}
		m.input.SetValue("")
		return m.attachCmd(path, pending)
	}

	err := m.orch.Submit(trimmed)
	switch {
	case errors.Is(err, turn.ErrBusy):
		return m.showError("Still answering, hold on")
	case err != nil:
		m.logger.Printf("ui: submit failed: %v", err)
		return m.showError(turn.FailureNotice)
	}

	m.input.SetValue("")
	m.waiting = true
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return m.spinner.Tick
}

// attachCmd runs the document pipeline off the UI goroutine and stages
// the result for the next submission.
func (m *Model) attachCmd(path, pending string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, err := m.proc.Process(ctx, path, pending)
		if err != nil {
			return FileErrorMsg{Err: err}
		}
		m.orch.StageContext(result.Excerpt, result.Label)
		return FileStagedMsg{Label: result.Label}
	}
}

// =============================================================================
// NOTICES
// =============================================================================

// showError displays a transient error banner.
func (m *Model) showError(text string) tea.Cmd {
	m.errNotice = text
	m.infoNotice = ""
	return m.scheduleDismiss()
}

// showInfo displays a transient info banner.
func (m *Model) showInfo(text string) tea.Cmd {
	m.infoNotice = text
	m.errNotice = ""
	return m.scheduleDismiss()
}

func (m *Model) scheduleDismiss() tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(noticeWindow, func(time.Time) tea.Msg {
		return dismissNoticeMsg{seq: seq}
	})
}

// =============================================================================
// LAYOUT
// =============================================================================

// resize recomputes component dimensions for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	contentHeight := height - headerHeight - inputHeight - statusHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	m.viewport.Width = m.transcriptWidth()
	m.viewport.Height = contentHeight
	m.input.Width = width - 6
	m.rebuildRenderer(m.transcriptWidth())
}

// transcriptWidth is the viewport width next to the sidebar.
func (m *Model) transcriptWidth() int {
	w := m.width - sidebarWidth - 3
	if w < 20 {
		w = 20
	}
	return w
}
