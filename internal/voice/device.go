// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice implements the microphone capture and transcription pipeline.
package voice

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

// =============================================================================
// DEVICE INTERFACE
// =============================================================================

// Device is an exclusive audio input source. Start acquires the device and
// begins delivering encoded chunks; Stop releases it and closes the channel.
type Device interface {
	// Start acquires the device. The returned channel delivers binary audio
	// chunks until Stop is called, then closes.
	Start(ctx context.Context) (<-chan []byte, error)

	// Stop releases the device. Safe to call only after a successful Start.
	Stop() error
}

// =============================================================================
// EXEC DEVICE
// =============================================================================

// chunkSize is the read granularity for the capture stream.
const chunkSize = 4096

// ExecDevice captures microphone audio by running an external recorder
// process that writes an Opus-in-WebM stream to stdout. ffmpeg is present on
// effectively every machine this tool targets and already handles device
// negotiation, encoding, and container finalization.
type ExecDevice struct {
	// Path is the recorder binary. Defaults to "ffmpeg".
	Path string

	// Args override the platform-default capture arguments.
	Args []string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

// NewExecDevice creates a capture device using platform defaults.
func NewExecDevice() *ExecDevice {
	return &ExecDevice{Path: "ffmpeg"}
}

// defaultArgs returns capture arguments for the current platform:
// default input device, Opus-encoded, WebM container on stdout.
func defaultArgs() []string {
	var input []string
	switch runtime.GOOS {
	case "darwin":
		input = []string{"-f", "avfoundation", "-i", ":0"}
	default:
		input = []string{"-f", "alsa", "-i", "default"}
	}
	return append(input,
		"-c:a", "libopus",
		"-f", "webm",
		"-loglevel", "quiet",
		"pipe:1",
	)
}

// Start launches the recorder process and begins streaming chunks.
func (d *ExecDevice) Start(ctx context.Context) (<-chan []byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cmd != nil {
		return nil, ErrMicUnavailable
	}

	args := d.Args
	if args == nil {
		args = defaultArgs()
	}

	cmd := exec.CommandContext(ctx, d.Path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMicUnavailable, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMicUnavailable, err)
	}

	d.cmd = cmd
	d.stdout = stdout

	chunks := make(chan []byte)
	go func() {
		defer close(chunks)
		for {
			buf := make([]byte, chunkSize)
			n, err := stdout.Read(buf)
			if n > 0 {
				chunks <- buf[:n]
			}
			if err != nil {
				return
			}
		}
	}()

	return chunks, nil
}

// Stop interrupts the recorder and waits for it to exit. SIGINT rather than
// SIGKILL so ffmpeg finalizes the WebM container before exiting.
func (d *ExecDevice) Stop() error {
	d.mu.Lock()
	cmd := d.cmd
	d.cmd = nil
	d.mu.Unlock()

	if cmd == nil {
		return nil
	}

	if cmd.Process != nil {
		cmd.Process.Signal(os.Interrupt)
	}
	// The exit status is uninteresting; the stream already carries the data.
	cmd.Wait()
	return nil
}
