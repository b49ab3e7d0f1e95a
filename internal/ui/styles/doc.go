// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the voxchat TUI.
//
// All colors use Lip Gloss AdaptiveColor so the interface renders
// correctly on both light and dark terminal backgrounds. The Theme
// struct bundles every style the views need; construct one with
// NewTheme at startup and share it across components.
package styles
