// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable key-value persistence for voxchat.
package storage

// Fixed logical names for every persisted value. Each configuration field is
// stored under its own key so fields default and persist independently.
const (
	// KeySession holds the active session as a JSON blob.
	KeySession = "current-chat-session"

	KeyBearerToken      = "chat-bearer-token"
	KeyWebhookURL       = "chat-webhook-url"
	KeyTranscriptionURL = "chat-transcription-url"
	KeySystemPrompt     = "chat-system-prompt"
	KeyAdminEmail       = "chat-admin-email"
	KeySelectedModel    = "chat-selected-model"
)
