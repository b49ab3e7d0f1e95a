// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds the ordered history of one conversation.
//
// Exactly one session is active at a time. Message order is append order and
// is never reordered; LastUpdated increases monotonically with each append.
type Session struct {
	ID          string    `json:"id"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// NewSession creates a fresh empty session with a generated ID.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:          "session-" + uuid.NewString(),
		Messages:    make([]Message, 0),
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append constructs a message and adds it to the end of the history.
// Empty content is allowed here; the input layer is responsible for
// rejecting blank submissions.
func (s *Session) Append(content string, role Role, model string) Message {
	var msg Message
	switch role {
	case RoleAssistant:
		msg = NewAssistantMessage(content, model)
	case RoleUser:
		msg = NewUserMessage(content)
	default:
		msg = NewMessage(role, content)
	}
	s.Messages = append(s.Messages, msg)
	s.touch(msg.Timestamp)
	return msg
}

// LastMessage returns the most recent message, or a zero Message if empty.
func (s *Session) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// MessageCount returns the number of messages.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty returns true if there are no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// touch advances LastUpdated, never letting it move backwards.
func (s *Session) touch(t time.Time) {
	if t.After(s.LastUpdated) {
		s.LastUpdated = t
	}
}
