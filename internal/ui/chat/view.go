// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docchat/docchat-tui/internal/model"
	"github.com/docchat/docchat-tui/internal/util"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	headerHeight = 1
	inputHeight  = 3
	statusHeight = 1
	sidebarWidth = 28

	revealCursor = "▌"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderSidebar(),
		m.viewport.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderInput(),
		m.renderStatus(),
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m *Model) renderHeader() string {
	title := "docchat"
	meta := m.modelName + " · " + m.theme.Name()
	// Header carries two columns of padding on each side.
	gap := m.width - util.StringWidth(title) - util.StringWidth(meta) - 4
	if gap < 1 {
		gap = 1
	}
	line := m.theme.HeaderTitle.Render(title) +
		strings.Repeat(" ", gap) +
		m.theme.HeaderMeta.Render(meta)
	return m.theme.Header.Width(m.width).Render(line)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m *Model) renderSidebar() string {
	sessions := m.store.Sessions()
	activeID := m.store.ActiveID()

	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render(fmt.Sprintf("Chats (%d)", len(sessions))))
	b.WriteString("\n")

	visible := m.viewport.Height - 1
	if visible < 1 {
		visible = 1
	}
	for i, sess := range sessions {
		if i >= visible {
			break
		}
		title := util.TruncateWidth(sess.ChatTitle(), sidebarWidth-5)
		// Pad each row so the active highlight spans the full column.
		if sess.ID == activeID {
			b.WriteString(m.theme.SessionItemActive.Render(util.PadRight("> "+title, sidebarWidth-3)))
		} else {
			b.WriteString(m.theme.SessionItem.Render(util.PadRight("  "+title, sidebarWidth-3)))
		}
		b.WriteString("\n")
	}

	return m.theme.Sidebar.
		Width(sidebarWidth).
		Height(m.viewport.Height).
		Render(strings.TrimRight(b.String(), "\n"))
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders the active session's messages. The message
// currently being revealed shows its prefix with a cursor instead of the
// committed (still empty) content.
func (m *Model) renderTranscript() string {
	sess := m.store.Active()
	if sess == nil || sess.IsEmpty() {
		return m.theme.Placeholder.Render("Start the conversation, or /attach a PDF to ground it.")
	}

	var b strings.Builder
	for _, msg := range sess.Messages {
		label := m.theme.UserLabel
		if msg.Role == model.RoleAssistant {
			label = m.theme.AssistantLabel
		}
		b.WriteString(label.Render(msg.Role.DisplayName()))
		b.WriteString(m.theme.Timestamp.Render("  " + msg.Timestamp.Format("15:04")))
		b.WriteString("\n")

		switch {
		case msg.ID == m.revealMessageID:
			b.WriteString(m.theme.MessageBody.Render(m.revealPrefix))
			b.WriteString(m.theme.RevealCursor.Render(revealCursor))
			b.WriteString("\n")
		case msg.IsEmpty() && m.waiting:
			b.WriteString(m.spinner.View())
			b.WriteString(m.theme.Placeholder.Render(" thinking"))
			b.WriteString("\n")
		case msg.Role == model.RoleAssistant:
			b.WriteString(strings.TrimRight(m.renderMarkdown(msg.Content), "\n"))
			b.WriteString("\n")
		default:
			b.WriteString(m.theme.MessageBody.Render(msg.Content))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// =============================================================================
// INPUT AREA
// =============================================================================

func (m *Model) renderInput() string {
	var chip string
	if label := m.orch.StagedLabel(); label != "" {
		chip = " " + m.theme.StagedChip.Render("pdf: "+label)
	}

	prompt := m.theme.InputPrompt.Render("> ")
	return m.theme.InputContainer.
		Width(m.width - 2).
		Render(prompt + m.input.View() + chip)
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m *Model) renderStatus() string {
	if m.errNotice != "" {
		return m.theme.ErrorBanner.Width(m.width).Render(m.errNotice)
	}
	if m.infoNotice != "" {
		return m.theme.InfoBanner.Width(m.width).Render(m.infoNotice)
	}

	parts := make([]string, 0, 8)
	for _, binding := range m.keyMap.ShortHelp() {
		help := binding.Help()
		parts = append(parts,
			m.theme.ShortcutKey.Render(help.Key)+" "+m.theme.ShortcutDesc.Render(help.Desc))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}
