// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat
// interface:
//   - Reveal: typing-effect progress, completion, and failure
//   - Attachment: document staging results
//   - Notices: transient banner dismissal
package chat

// =============================================================================
// REVEAL MESSAGES
// =============================================================================

// RevealTickMsg delivers the currently revealed prefix of an in-progress
// assistant reply.
type RevealTickMsg struct {
	SessionID string
	MessageID string
	Prefix    string
}

// TurnDoneMsg signals that a request/response cycle finished and the
// final reply was committed to its session.
type TurnDoneMsg struct {
	SessionID string
	MessageID string
	Final     string
}

// TurnErrorMsg signals that the backend call failed and the placeholder
// was removed from the transcript.
type TurnErrorMsg struct {
	SessionID string
	Err       error
}

// =============================================================================
// ATTACHMENT MESSAGES
// =============================================================================

// FileStagedMsg signals that a document was uploaded and its extracted
// excerpt staged for the next submission.
type FileStagedMsg struct {
	Label string
}

// FileErrorMsg signals that document processing failed.
type FileErrorMsg struct {
	Err error
}

// =============================================================================
// NOTICE MESSAGES
// =============================================================================

// dismissNoticeMsg clears a transient banner after its display window.
type dismissNoticeMsg struct {
	seq int
}
