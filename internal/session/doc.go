// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the single active chat session and mirrors it to
// durable storage.
//
// Every mutation (append, clear) persists the whole session synchronously
// under one fixed storage key. Restore decodes a versioned record and fails
// closed: any corrupt or mismatched payload yields a fresh empty session,
// never an error surfaced to the user.
package session
