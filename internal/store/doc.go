// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the set of conversation sessions and the active-session
// pointer, and persists them through an injected Persister port.
//
// The store is the single authority over session state: the UI and the turn
// orchestrator mutate sessions only through its operations, and every
// successful mutation re-persists the full snapshot. Persistence failures
// are logged, never surfaced - in-memory state stays authoritative for the
// running process. Malformed persisted data is treated as absence: the store
// starts fresh with a single empty session rather than failing to load.
package store
