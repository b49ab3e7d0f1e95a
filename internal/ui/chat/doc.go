// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the voxchat TUI.
//
// The view is a standard Bubble Tea model split across files:
//
//   - model.go    - the Model struct and constructor
//   - update.go   - message handling and async commands
//   - view.go     - rendering
//   - messages.go - Bubble Tea message types
//   - keys.go     - keyboard bindings
//
// The chat view owns the conversation lifecycle: it appends user turns,
// dispatches them to the webhook, records and transcribes voice input,
// and surfaces failures as non-blocking toasts. A failed dispatch never
// removes an already-appended user turn; the view appends a fixed
// apology reply instead so the transcript stays intact.
package chat
