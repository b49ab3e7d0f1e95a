// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice implements the microphone capture and transcription pipeline.
package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// =============================================================================
// STATE
// =============================================================================

// State is the recorder's position in the capture lifecycle.
type State int

const (
	// StateIdle means no recording is active and the device is released.
	StateIdle State = iota
	// StateRecording means the device is held and chunks are accumulating.
	StateRecording
	// StateTranscribing means the device is released and the finalized
	// payload is (or is about to be) in flight to the transcription webhook.
	StateTranscribing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	default:
		return "unknown"
	}
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrMicUnavailable indicates the input device could not be acquired.
	ErrMicUnavailable = errors.New("microphone unavailable")

	// ErrNoActiveRecording indicates Stop was called while not recording.
	ErrNoActiveRecording = errors.New("no active recording")

	// ErrAlreadyActive indicates Start was called while not idle.
	// Callers gate the toggle on state, so hitting this is a wiring bug.
	ErrAlreadyActive = errors.New("recording already active")

	// ErrTranscriptionFailed indicates the transcription webhook returned a
	// non-success status.
	ErrTranscriptionFailed = errors.New("transcription failed")
)

// =============================================================================
// PAYLOAD
// =============================================================================

// PayloadContentType is the declared type of a finalized capture.
const PayloadContentType = "audio/webm"

// PayloadFilename is the filename reported in the multipart upload.
const PayloadFilename = "recording.webm"

// Payload is one finalized capture, ready for transcription.
type Payload struct {
	Data []byte
}

// =============================================================================
// RECORDER
// =============================================================================

// Recorder drives the capture state machine over a Device.
type Recorder struct {
	device Device
	client *http.Client // nil means the shared transcription client

	mu      sync.Mutex
	state   State
	buffer  bytes.Buffer
	drained chan struct{}
}

// NewRecorder creates an idle recorder over the given device.
func NewRecorder(device Device) *Recorder {
	return &Recorder{device: device, state: StateIdle}
}

// State returns the current pipeline state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start acquires the microphone and begins accumulating chunks.
// On device failure the recorder stays idle.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return ErrAlreadyActive
	}
	r.buffer.Reset()
	r.mu.Unlock()

	chunks, err := r.device.Start(ctx)
	if err != nil {
		if errors.Is(err, ErrMicUnavailable) {
			return err
		}
		return errors.Join(ErrMicUnavailable, err)
	}

	drained := make(chan struct{})

	r.mu.Lock()
	r.state = StateRecording
	r.drained = drained
	r.mu.Unlock()

	go func() {
		defer close(drained)
		for chunk := range chunks {
			r.mu.Lock()
			r.buffer.Write(chunk)
			r.mu.Unlock()
		}
	}()

	return nil
}

// Stop finalizes the capture and transitions to transcribing.
//
// The device is released first, before the buffered chunks are touched, so
// the microphone is never held past this point — even for a zero-length
// recording.
func (r *Recorder) Stop() (Payload, error) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return Payload{}, ErrNoActiveRecording
	}
	drained := r.drained
	r.mu.Unlock()

	stopErr := r.device.Stop()
	if drained != nil {
		<-drained
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if stopErr != nil {
		// A failed release means the capture cannot be trusted; discard it
		// and settle back to idle rather than transcribing garbage.
		r.buffer.Reset()
		r.state = StateIdle
		r.drained = nil
		return Payload{}, fmt.Errorf("release device: %w", stopErr)
	}

	data := make([]byte, r.buffer.Len())
	copy(data, r.buffer.Bytes())
	r.buffer.Reset()
	r.state = StateTranscribing

	return Payload{Data: data}, nil
}

// settle returns the pipeline to idle after transcription completes or
// fails. The capture buffer is already discarded by Stop.
func (r *Recorder) settle() {
	r.mu.Lock()
	r.state = StateIdle
	r.drained = nil
	r.mu.Unlock()
}
