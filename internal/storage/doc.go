// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable key-value persistence for voxchat.
//
// All persisted state — the active session blob and each configuration
// field — lives in a single SQLite database under ~/.voxchat/, keyed by the
// fixed logical names in keys.go. Values are read once at startup and written
// synchronously on every change.
package storage
