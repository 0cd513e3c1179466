// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is shown for sessions that have no messages yet.
const DefaultTitle = "New conversation"

// titleMaxRunes is the number of leading characters of the first message
// used as the derived session title.
const titleMaxRunes = 30

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds one named conversation thread with its message history.
type Session struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Messages    []*Message `json:"messages"`
	Created     time.Time  `json:"created"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// NewSession creates a new empty session with a generated ID.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.NewString(),
		Title:       DefaultTitle,
		Messages:    make([]*Message, 0),
		Created:     now,
		LastUpdated: now,
	}
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// ChatTitle derives the display label for the session from the leading text
// of its first message: up to 30 characters verbatim, longer content is cut
// to 30 characters with an ellipsis marker. Sessions without messages get
// the fixed placeholder.
func (s *Session) ChatTitle() string {
	if len(s.Messages) == 0 {
		return DefaultTitle
	}
	content := strings.TrimSpace(s.Messages[0].Content)
	runes := []rune(content)
	if len(runes) <= titleMaxRunes {
		return content
	}
	return string(runes[:titleMaxRunes]) + "..."
}

// =============================================================================
// MESSAGE ACCESS
// =============================================================================

// MessageCount returns the number of messages.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty returns true if there are no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// LastMessage returns the most recent message, or nil if empty.
func (s *Session) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// MessageByID returns a message by its ID, or nil if not found.
func (s *Session) MessageByID(id string) *Message {
	for _, msg := range s.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// Touch refreshes the LastUpdated timestamp.
func (s *Session) Touch() {
	s.LastUpdated = time.Now()
}

// Clone returns a deep copy of the session. Messages are copied by value so
// callers can mutate the clone without affecting the original.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:          s.ID,
		Title:       s.Title,
		Created:     s.Created,
		LastUpdated: s.LastUpdated,
		Messages:    make([]*Message, len(s.Messages)),
	}
	for i, msg := range s.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}

// CloneMessages returns a copy of the message slice with copied elements.
func CloneMessages(msgs []*Message) []*Message {
	out := make([]*Message, len(msgs))
	for i, msg := range msgs {
		msgCopy := *msg
		out[i] = &msgCopy
	}
	return out
}
