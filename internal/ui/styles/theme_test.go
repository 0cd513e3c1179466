// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// PALETTE TABLE TESTS
// =============================================================================

func TestNamesMatchesTable(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("Names() returned no palettes")
	}
	if names[0] != DefaultThemeName {
		t.Errorf("first palette = %q, want default %q", names[0], DefaultThemeName)
	}

	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			t.Errorf("duplicate palette name %q", name)
		}
		seen[name] = true
	}
}

func TestByNameFallsBackToDefault(t *testing.T) {
	p := ByName("no-such-scheme")
	if p.Name != DefaultThemeName {
		t.Errorf("ByName(unknown) = %q, want %q", p.Name, DefaultThemeName)
	}
}

func TestNextNameCyclesThroughAllPalettes(t *testing.T) {
	names := Names()
	current := names[0]
	for range names {
		current = NextName(current)
	}
	if current != names[0] {
		t.Errorf("cycling %d times ended at %q, want %q", len(names), current, names[0])
	}
}

func TestNextNameUnknownRestartsCycle(t *testing.T) {
	if got := NextName("no-such-scheme"); got != Names()[0] {
		t.Errorf("NextName(unknown) = %q, want %q", got, Names()[0])
	}
}

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	for _, name := range Names() {
		theme := NewTheme(name)
		if theme == nil {
			t.Fatalf("NewTheme(%q) returned nil", name)
		}
		if theme.Name() != name {
			t.Errorf("NewTheme(%q).Name() = %q", name, theme.Name())
		}
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme(DefaultThemeName)

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"Sidebar", theme.Sidebar},
		{"SessionItemActive", theme.SessionItemActive},
		{"UserLabel", theme.UserLabel},
		{"AssistantLabel", theme.AssistantLabel},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
		{"ErrorBanner", theme.ErrorBanner},
		{"StagedChip", theme.StagedChip},
	}

	for _, s := range styles {
		// An uninitialized style would return the input unchanged.
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}
}

func TestThemeNextFollowsTableOrder(t *testing.T) {
	theme := NewTheme(DefaultThemeName)
	next := theme.Next()
	if next.Name() != NextName(DefaultThemeName) {
		t.Errorf("Next() = %q, want %q", next.Name(), NextName(DefaultThemeName))
	}
}
