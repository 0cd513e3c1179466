// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package turn drives one request/response cycle against the backend:
// it appends the user's message and an assistant placeholder, builds the
// conversation context, calls the generation endpoint, cleans the reply,
// and streams it into the transcript one character at a time.
//
// Only one cycle runs at a time. A submission while a cycle is in flight
// is rejected with ErrBusy, never queued.
package turn
