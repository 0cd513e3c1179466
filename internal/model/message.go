// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/docchat/docchat-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// ContextLabel returns the label used when serializing conversation history
// for the completion backend ("User" / "Assistant").
func (r Role) ContextLabel() string {
	if r == RoleUser {
		return "User"
	}
	return "Assistant"
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single conversational turn.
// An assistant message created as a placeholder has empty Content until the
// turn orchestrator commits the final revealed text.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantPlaceholder creates an empty assistant message. The content is
// filled in by the turn orchestrator once the reveal completes.
func NewAssistantPlaceholder() *Message {
	return NewMessage(RoleAssistant, "")
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// Preview returns a truncated preview of the message content.
func (m *Message) Preview(maxRunes int) string {
	return util.TruncateRunes(m.Content, maxRunes)
}
