// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the docchat terminal interface: a session
// sidebar, a transcript viewport with a typing-effect reveal, and an
// input line with document attachment.
//
// The Bubble Tea model here is deliberately thin. Session state lives in
// the store, request/response cycles run in the turn orchestrator, and
// the orchestrator's background events re-enter the UI as typed
// tea.Msg values delivered through Program.Send.
package chat
