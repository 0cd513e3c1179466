// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the docchat TUI.
// A small table of named palettes feeds a Theme of prebuilt lip gloss
// styles; the selected palette name is persisted and cycled at runtime.
package styles
