// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice implements the microphone capture and transcription pipeline.
//
// The pipeline is a three-state machine:
//
//	idle --(Start)--> recording --(Stop)--> transcribing --(done|error)--> idle
//
// Transitions are strictly linear; one recording at a time. The microphone is
// the only exclusively-held resource and is held for the shortest possible
// span: acquired inside Start, released unconditionally at the top of Stop's
// finalization, even when no audio was captured.
//
// Transcription POSTs the captured payload to an external speech-to-text
// webhook as a multipart form and tolerates three response shapes; an
// unrecognized-but-valid JSON body means "no speech detected", which is a
// normal outcome rather than an error.
package voice
