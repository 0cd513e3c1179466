// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/docchat/docchat-tui/internal/fileproc"
	"github.com/docchat/docchat-tui/internal/store"
	"github.com/docchat/docchat-tui/internal/turn"
	"github.com/docchat/docchat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the docchat interface.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Collaborators
	store  *store.Store
	orch   *turn.Orchestrator
	proc   *fileproc.Processor
	logger *log.Logger

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keyMap   KeyMap

	// Markdown rendering for committed assistant replies
	renderer *glamour.TermRenderer

	// In-progress reveal, tracked so the transcript can show the prefix
	// with a cursor. Cleared on TurnDoneMsg.
	revealSessionID string
	revealMessageID string
	revealPrefix    string

	// Whether the backend call is in flight (spinner shown, input locked)
	waiting bool

	// Transient banners
	errNotice  string
	infoNotice string
	noticeSeq  int

	// Display name of the backend model, for the header
	modelName string

	quitting bool
}

// Options configures a chat model.
type Options struct {
	Store     *store.Store
	Orch      *turn.Orchestrator
	Processor *fileproc.Processor
	ModelName string
	ThemeName string
	Logger    *log.Logger
}

// New creates the chat model. The store must already be loaded.
func New(opts Options) *Model {
	input := textinput.New()
	input.Placeholder = "Ask a question, or /attach <file.pdf>"
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	theme := styles.NewTheme(opts.ThemeName)
	sp.Style = theme.Spinner

	logger := opts.Logger
	if logger == nil {
		logger = log.New(discardWriter{}, "", 0)
	}

	m := &Model{
		theme:     theme,
		store:     opts.Store,
		orch:      opts.Orch,
		proc:      opts.Processor,
		logger:    logger,
		viewport:  viewport.New(0, 0),
		input:     input,
		spinner:   sp,
		keyMap:    DefaultKeyMap(),
		modelName: opts.ModelName,
	}
	m.rebuildRenderer(80)
	return m
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// rebuildRenderer recreates the glamour renderer for a new wrap width or
// theme. Rendering falls back to plain text when glamour fails.
func (m *Model) rebuildRenderer(width int) {
	if width < 10 {
		width = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.glamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.logger.Printf("ui: glamour init failed: %v", err)
		m.renderer = nil
		return
	}
	m.renderer = r
}

// glamourStyle maps the palette to a glamour standard style.
func (m *Model) glamourStyle() string {
	if m.theme.Name() == "light" {
		return "light"
	}
	return "dark"
}

// renderMarkdown renders committed assistant content, falling back to
// the raw text on renderer errors.
func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

// =============================================================================
// SESSION NAVIGATION
// =============================================================================

// switchRelative moves the active session by offset within the sidebar
// order, clamped at both ends. Any in-progress reveal is committed to
// its originating session first.
func (m *Model) switchRelative(offset int) {
	sessions := m.store.Sessions()
	activeID := m.store.ActiveID()

	idx := 0
	for i, sess := range sessions {
		if sess.ID == activeID {
			idx = i
			break
		}
	}

	target := idx + offset
	if target < 0 || target >= len(sessions) {
		return
	}
	m.switchTo(sessions[target].ID)
}

// switchTo activates a session after finishing any running reveal.
func (m *Model) switchTo(id string) {
	m.orch.FinishNow()
	m.store.SwitchSession(id)
	m.refreshTranscript()
	m.viewport.GotoBottom()
}

// messageCommitted reports whether a message already carries its final
// text, or no longer exists at all.
func (m *Model) messageCommitted(sessionID, messageID string) bool {
	sess := m.store.Session(sessionID)
	if sess == nil {
		return true
	}
	msg := sess.MessageByID(messageID)
	return msg == nil || msg.Content != ""
}

// refreshTranscript re-renders the active session into the viewport.
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
}
