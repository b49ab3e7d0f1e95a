// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package webhook implements the dispatch client for the chat completion
// endpoint.
//
// The backend is an opaque automation webhook: one POST per user message,
// bearer-token auth, `{"output": "..."}` back. Each Send is a single
// best-effort round trip — no retries, no backoff, no cancellation beyond the
// caller's context. Failure policy lives with the caller: the user turn is
// appended before the call and is never rolled back.
package webhook
