// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// A Session is the ordered history of Messages for one conversation. Messages
// are immutable once created and are only ever appended; clearing a
// conversation replaces the Session wholesale with a fresh one rather than
// mutating it in place.
//
// The package also carries the picklist of chat models the webhook backend
// accepts, shared by the model selector and the dispatch payload.
package model
