// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and persistence for voxchat.
//
// Configuration is an explicit value object passed to components by
// parameter; nothing reads ambient storage directly. Precedence at load time,
// lowest to highest:
//
//   - built-in defaults
//   - ~/.voxchat/config.toml (optional deployment pinning)
//   - values persisted in the key-value store (settings edited in the UI)
//   - VOXCHAT_* environment variables
//
// There is no teardown: persisted values survive across runs.
package config
