// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sanitize strips known instruction-leakage phrases from completion
// output. The backend assembles prompts by prepending fixed instruction
// sentences to the conversation context, and some models echo those
// sentences back; this package removes the echoes before the text is
// displayed, persisted, or fed back into the context of a later turn.
package sanitize
