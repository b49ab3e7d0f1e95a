// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the single active chat session and mirrors it to
// durable storage.
package session

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/voxchat-tui/internal/model"
	"github.com/jeranaias/voxchat-tui/internal/storage"
)

// =============================================================================
// STORED RECORD SCHEMA
// =============================================================================

// schemaVersion is bumped whenever the stored layout changes shape.
// Restore rejects records written by any other version.
const schemaVersion = 1

// storedSession is the persisted form of a session.
type storedSession struct {
	Version     int            `json:"version"`
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Messages    []storedTurn   `json:"messages"`
}

// storedTurn is the persisted form of a message.
type storedTurn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Model     string    `json:"model,omitempty"`
}

// =============================================================================
// SESSION STORE
// =============================================================================

// Store maintains the active session and keeps it mirrored to storage.
type Store struct {
	kv      *storage.Store
	current *model.Session
}

// New creates a store around an opened storage handle with a fresh session.
// Call Restore to pick up a previously persisted one.
func New(kv *storage.Store) *Store {
	return &Store{
		kv:      kv,
		current: model.NewSession(),
	}
}

// Current returns the active session.
func (s *Store) Current() *model.Session {
	return s.current
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Append adds a turn to the active session and persists the result.
func (s *Store) Append(content string, role model.Role, modelID string) model.Message {
	msg := s.current.Append(content, role, modelID)
	s.persist()
	return msg
}

// Clear replaces the active session with a brand-new empty one.
// Configuration is untouched.
func (s *Store) Clear() {
	s.current = model.NewSession()
	s.persist()
}

// Restore loads the persisted session, if any. A missing, corrupt, or
// wrong-version record silently leaves the fresh session in place — losing a
// broken history beats crashing on startup.
func (s *Store) Restore() {
	raw, ok, err := s.kv.Get(storage.KeySession)
	if err != nil || !ok {
		return
	}

	var stored storedSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return
	}
	if stored.Version != schemaVersion || stored.ID == "" {
		return
	}

	restored := &model.Session{
		ID:          stored.ID,
		CreatedAt:   stored.CreatedAt,
		LastUpdated: stored.LastUpdated,
		Messages:    make([]model.Message, 0, len(stored.Messages)),
	}
	for _, turn := range stored.Messages {
		role := model.Role(turn.Role)
		if role != model.RoleUser && role != model.RoleAssistant {
			// Unknown role means a foreign or damaged record; fail closed.
			return
		}
		restored.Messages = append(restored.Messages, model.Message{
			ID:        turn.ID,
			Role:      role,
			Content:   turn.Content,
			Timestamp: turn.Timestamp,
			Model:     turn.Model,
		})
	}

	s.current = restored
}

// persist serializes the whole session under its fixed key. Write failures
// are swallowed: persistence is best-effort and the in-memory session stays
// authoritative for the rest of the run.
func (s *Store) persist() {
	stored := storedSession{
		Version:     schemaVersion,
		ID:          s.current.ID,
		CreatedAt:   s.current.CreatedAt,
		LastUpdated: s.current.LastUpdated,
		Messages:    make([]storedTurn, 0, len(s.current.Messages)),
	}
	for _, msg := range s.current.Messages {
		stored.Messages = append(stored.Messages, storedTurn{
			ID:        msg.ID,
			Role:      msg.Role.String(),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
			Model:     msg.Model,
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return
	}
	s.kv.Put(storage.KeySession, string(data))
}
