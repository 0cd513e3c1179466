// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines keyboard bindings for the chat interface.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Submit      key.Binding
	NewSession  key.Binding
	PrevSession key.Binding
	NextSession key.Binding
	DeleteSess  key.Binding
	SkipReveal  key.Binding
	CycleTheme  key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		NewSession: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		PrevSession: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "prev chat"),
		),
		NextSession: key.NewBinding(
			key.WithKeys("ctrl+j"),
			key.WithHelp("C-j", "next chat"),
		),
		DeleteSess: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "delete chat"),
		),
		SkipReveal: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "skip typing"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("Up", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("Down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NewSession, k.PrevSession, k.DeleteSess, k.CycleTheme, k.Quit}
}
