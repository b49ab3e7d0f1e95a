// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the voxchat TUI.
//
// Components here are stateless rendering helpers plus a small amount of
// self-contained state (the toast manager). The chat view composes them.
package components
