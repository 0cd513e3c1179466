// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application, built from
// one palette. It also records the terminal's detected color profile.
type Theme struct {
	Palette      Palette
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// ==========================================================================
	// SIDEBAR / SESSION LIST STYLES
	// ==========================================================================

	Sidebar           lipgloss.Style
	SidebarTitle      lipgloss.Style
	SessionItem       lipgloss.Style
	SessionItemActive lipgloss.Style
	SessionMeta       lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	MessageBody    lipgloss.Style
	RevealCursor   lipgloss.Style
	Timestamp      lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	Placeholder    lipgloss.Style
	StagedChip     lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style

	// ==========================================================================
	// NOTICE STYLES
	// ==========================================================================

	ErrorBanner lipgloss.Style
	InfoBanner  lipgloss.Style
}

// NewTheme builds a theme from the named palette. Unknown names fall
// back to the default scheme.
func NewTheme(name string) *Theme {
	p := ByName(name)
	t := &Theme{
		Palette:      p,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// Next returns the theme following this one in the palette cycle.
func (t *Theme) Next() *Theme {
	return NewTheme(NextName(t.Palette.Name))
}

// Name returns the palette name, which is what gets persisted.
func (t *Theme) Name() string {
	return t.Palette.Name
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	p := t.Palette

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Italic(true)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(p.Border).
		PaddingRight(1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextSecondary).
		Padding(0, 1)

	t.SessionItem = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Padding(0, 1)

	t.SessionItemActive = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true).
		Padding(0, 1)

	t.SessionMeta = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Transcript
	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.UserLabel)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.AssistantLabel)

	t.MessageBody = lipgloss.NewStyle().
		Foreground(p.TextPrimary)

	t.RevealCursor = lipgloss.NewStyle().
		Foreground(p.Accent).
		Blink(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Border).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	t.StagedChip = lipgloss.NewStyle().
		Foreground(p.Success).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Success).
		Padding(0, 1)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(p.SurfaceDim).
		Foreground(p.TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(p.AccentAlt)

	// Notices
	t.ErrorBanner = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(p.Error).
		PaddingLeft(1)

	t.InfoBanner = lipgloss.NewStyle().
		Foreground(p.Success).
		PaddingLeft(1)
}
