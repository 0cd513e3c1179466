// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PALETTE TABLE
// =============================================================================

// Palette is one named color scheme. Every theme style is derived from
// these slots, so adding a scheme means adding one table entry.
type Palette struct {
	Name string

	// Accent colors
	Accent    lipgloss.Color // headers, active selections, the input prompt
	AccentAlt lipgloss.Color // secondary accent, assistant labels

	// Surfaces and chrome
	Surface    lipgloss.Color // main background
	SurfaceDim lipgloss.Color // header and status bar background
	Border     lipgloss.Color // separators, inactive borders

	// Text
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	// Roles
	UserLabel      lipgloss.Color
	AssistantLabel lipgloss.Color

	// Semantic
	Error   lipgloss.Color
	Success lipgloss.Color
}

// DefaultThemeName is used when no theme was persisted or the persisted
// name is unknown.
const DefaultThemeName = "dark"

// palettes is ordered; Ctrl+T cycles through it in this order.
var palettes = []Palette{
	{
		Name:           "dark",
		Accent:         "#22D3EE",
		AccentAlt:      "#A78BFA",
		Surface:        "#1E1E2E",
		SurfaceDim:     "#181825",
		Border:         "#313244",
		TextPrimary:    "#CDD6F4",
		TextSecondary:  "#A6ADC8",
		TextMuted:      "#6C7086",
		UserLabel:      "#3B82F6",
		AssistantLabel: "#A78BFA",
		Error:          "#FB7185",
		Success:        "#34D399",
	},
	{
		Name:           "light",
		Accent:         "#0891B2",
		AccentAlt:      "#7C3AED",
		Surface:        "#FFFFFF",
		SurfaceDim:     "#F5F5F5",
		Border:         "#E5E5E5",
		TextPrimary:    "#1F2937",
		TextSecondary:  "#6B7280",
		TextMuted:      "#9CA3AF",
		UserLabel:      "#1E40AF",
		AssistantLabel: "#5B21B6",
		Error:          "#E11D48",
		Success:        "#059669",
	},
	{
		Name:           "midnight",
		Accent:         "#60A5FA",
		AccentAlt:      "#F5C2E7",
		Surface:        "#0F172A",
		SurfaceDim:     "#0B1120",
		Border:         "#1E293B",
		TextPrimary:    "#E2E8F0",
		TextSecondary:  "#94A3B8",
		TextMuted:      "#475569",
		UserLabel:      "#60A5FA",
		AssistantLabel: "#F5C2E7",
		Error:          "#F87171",
		Success:        "#4ADE80",
	},
	{
		Name:           "forest",
		Accent:         "#34D399",
		AccentAlt:      "#FBBF24",
		Surface:        "#1A2421",
		SurfaceDim:     "#141C19",
		Border:         "#2D3B35",
		TextPrimary:    "#D1E7DD",
		TextSecondary:  "#9DB8AC",
		TextMuted:      "#5C7268",
		UserLabel:      "#34D399",
		AssistantLabel: "#FBBF24",
		Error:          "#FB7185",
		Success:        "#34D399",
	},
}

// Names returns the palette names in cycle order.
func Names() []string {
	out := make([]string, len(palettes))
	for i, p := range palettes {
		out[i] = p.Name
	}
	return out
}

// ByName returns the palette with the given name, falling back to the
// default scheme for unknown names.
func ByName(name string) Palette {
	for _, p := range palettes {
		if p.Name == name {
			return p
		}
	}
	return ByName(DefaultThemeName)
}

// NextName returns the palette name following the given one, wrapping
// at the end of the table. Unknown names restart the cycle.
func NextName(name string) string {
	for i, p := range palettes {
		if p.Name == name {
			return palettes[(i+1)%len(palettes)].Name
		}
	}
	return palettes[0].Name
}
