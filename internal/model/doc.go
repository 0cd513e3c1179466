// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// A Session is one persisted conversation thread; a Message is one
// conversational turn within it. Both are plain serializable values - all
// orchestration lives in the store and turn packages.
package model
