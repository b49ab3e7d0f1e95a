// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice is a scriptable Device for pipeline tests.
type fakeDevice struct {
	chunks    [][]byte
	failStart bool
	stopErr   error

	started bool
	stopped bool
	ch      chan []byte
}

func (d *fakeDevice) Start(ctx context.Context) (<-chan []byte, error) {
	if d.failStart {
		return nil, ErrMicUnavailable
	}
	d.started = true
	d.ch = make(chan []byte, len(d.chunks)+1)
	for _, c := range d.chunks {
		d.ch <- c
	}
	return d.ch, nil
}

func (d *fakeDevice) Stop() error {
	d.stopped = true
	close(d.ch)
	return d.stopErr
}

func TestRecorder_Lifecycle(t *testing.T) {
	dev := &fakeDevice{chunks: [][]byte{[]byte("abc"), []byte("def")}}
	rec := NewRecorder(dev)

	assert.Equal(t, StateIdle, rec.State())

	require.NoError(t, rec.Start(context.Background()))
	assert.Equal(t, StateRecording, rec.State())
	assert.True(t, dev.started)

	payload, err := rec.Stop()
	require.NoError(t, err)
	assert.Equal(t, StateTranscribing, rec.State())
	assert.True(t, dev.stopped, "device must be released by Stop")
	assert.Equal(t, []byte("abcdef"), payload.Data, "chunks concatenated in order")
}

func TestRecorder_StopWhileIdle(t *testing.T) {
	rec := NewRecorder(&fakeDevice{})

	_, err := rec.Stop()
	assert.ErrorIs(t, err, ErrNoActiveRecording)
	assert.Equal(t, StateIdle, rec.State(), "state unchanged on bad Stop")
}

func TestRecorder_StartWhileRecording(t *testing.T) {
	dev := &fakeDevice{}
	rec := NewRecorder(dev)

	require.NoError(t, rec.Start(context.Background()))
	err := rec.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.Equal(t, StateRecording, rec.State())
}

func TestRecorder_StartDeviceFailure(t *testing.T) {
	rec := NewRecorder(&fakeDevice{failStart: true})

	err := rec.Start(context.Background())
	assert.ErrorIs(t, err, ErrMicUnavailable)
	assert.Equal(t, StateIdle, rec.State(), "pipeline stays idle on device failure")
}

func TestRecorder_StopDeviceFailure(t *testing.T) {
	dev := &fakeDevice{chunks: [][]byte{[]byte("abc")}, stopErr: errors.New("process already exited")}
	rec := NewRecorder(dev)

	require.NoError(t, rec.Start(context.Background()))
	_, err := rec.Stop()
	require.Error(t, err)
	assert.Equal(t, StateIdle, rec.State(), "failed release settles back to idle")

	// The recorder must be usable again after the failure.
	dev2 := &fakeDevice{chunks: [][]byte{[]byte("next")}}
	rec.device = dev2
	require.NoError(t, rec.Start(context.Background()))
	payload, err := rec.Stop()
	require.NoError(t, err)
	assert.Equal(t, []byte("next"), payload.Data, "stale capture discarded")
}

func TestRecorder_ZeroLengthRecording(t *testing.T) {
	dev := &fakeDevice{}
	rec := NewRecorder(dev)

	require.NoError(t, rec.Start(context.Background()))
	payload, err := rec.Stop()
	require.NoError(t, err)

	assert.True(t, dev.stopped, "device released even with no audio captured")
	assert.Empty(t, payload.Data)
}

func TestRecorder_RestartAfterSettle(t *testing.T) {
	dev := &fakeDevice{chunks: [][]byte{[]byte("first")}}
	rec := NewRecorder(dev)

	require.NoError(t, rec.Start(context.Background()))
	payload, err := rec.Stop()
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), payload.Data)

	rec.settle()
	assert.Equal(t, StateIdle, rec.State())

	// The buffer from the previous cycle must not leak into the next.
	dev.chunks = [][]byte{[]byte("second")}
	require.NoError(t, rec.Start(context.Background()))
	payload, err = rec.Stop()
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), payload.Data)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "recording", StateRecording.String())
	assert.Equal(t, "transcribing", StateTranscribing.String())
}
