// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Bubble Tea message types used by the chat view. All messages are
// immutable values produced by async commands in update.go.
package chat

import (
	"github.com/jeranaias/voxchat-tui/internal/config"
)

// =============================================================================
// DISPATCH MESSAGES
// =============================================================================

// ReplyMsg delivers the outcome of one webhook dispatch. Exactly one of
// Reply or Err is meaningful. The user turn that triggered the dispatch
// is already in the transcript and stays there either way.
type ReplyMsg struct {
	Reply string
	Err   error
}

// =============================================================================
// VOICE MESSAGES
// =============================================================================

// RecordStartedMsg reports whether the capture device came up.
type RecordStartedMsg struct {
	Err error
}

// TranscriptMsg delivers the transcription outcome. An empty Text with
// a nil Err means the recording contained no recognizable speech.
type TranscriptMsg struct {
	Text string
	Err  error
}

// =============================================================================
// CONFIGURATION MESSAGES
// =============================================================================

// ConfigReloadedMsg carries a freshly loaded configuration after the
// defaults file changed on disk.
type ConfigReloadedMsg struct {
	Config config.Config
}
