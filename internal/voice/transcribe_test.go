// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranscriptionServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request, *[]byte) {
	t.Helper()
	var captured http.Request
	var audio []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		require.NoError(t, r.ParseMultipartForm(32<<20))
		if f, _, err := r.FormFile("audio"); err == nil {
			audio, _ = io.ReadAll(f)
			f.Close()
		}
		captured.MultipartForm = r.MultipartForm
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured, &audio
}

func TestTranscribe_ArrayShape(t *testing.T) {
	srv, req, audio := newTranscriptionServer(t, http.StatusOK, `[{"text": "book an appointment"}]`)

	rec := NewRecorder(&fakeDevice{})
	payload := Payload{Data: []byte("webm-bytes")}

	text, err := rec.Transcribe(context.Background(), payload, srv.URL, "tok-123", "session-abc")
	require.NoError(t, err)
	assert.Equal(t, "book an appointment", text)
	assert.Equal(t, StateIdle, rec.State(), "pipeline settles after transcription")

	assert.Equal(t, "tok-123", req.Header.Get("Authorization"),
		"token sent raw, no Bearer prefix")
	assert.Equal(t, []string{"session-abc"}, req.MultipartForm.Value["sessionID"])
	assert.Equal(t, []byte("webm-bytes"), *audio)

	files := req.MultipartForm.File["audio"]
	require.Len(t, files, 1)
	assert.Equal(t, PayloadFilename, files[0].Filename)
	assert.Equal(t, PayloadContentType, files[0].Header.Get("Content-Type"))
}

func TestTranscribe_ObjectShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"transcription field", `{"transcription": "hi"}`, "hi"},
		{"text field", `{"text": "hello there"}`, "hello there"},
		{"transcription wins over text", `{"transcription": "a", "text": "b"}`, "a"},
		{"empty object is silence", `{}`, ""},
		{"empty array is silence", `[]`, ""},
		{"array element without text", `[{"confidence": 0.4}]`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := newTranscriptionServer(t, http.StatusOK, tt.body)
			rec := NewRecorder(&fakeDevice{})

			text, err := rec.Transcribe(context.Background(), Payload{Data: []byte("x")}, srv.URL, "tok", "sid")
			require.NoError(t, err, "silence is not an error")
			assert.Equal(t, tt.want, text)
			assert.Equal(t, StateIdle, rec.State())
		})
	}
}

func TestTranscribe_ServerError(t *testing.T) {
	srv, _, _ := newTranscriptionServer(t, http.StatusInternalServerError, "boom")
	rec := NewRecorder(&fakeDevice{})

	_, err := rec.Transcribe(context.Background(), Payload{Data: []byte("x")}, srv.URL, "tok", "sid")
	assert.ErrorIs(t, err, ErrTranscriptionFailed)
	assert.Equal(t, StateIdle, rec.State(), "pipeline settles even on failure")
}

func TestTranscribe_MalformedBody(t *testing.T) {
	srv, _, _ := newTranscriptionServer(t, http.StatusOK, "not json")
	rec := NewRecorder(&fakeDevice{})

	_, err := rec.Transcribe(context.Background(), Payload{Data: []byte("x")}, srv.URL, "tok", "sid")
	assert.Error(t, err)
	assert.Equal(t, StateIdle, rec.State())
}

func TestTranscribe_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	rec := NewRecorder(&fakeDevice{})

	_, err := rec.Transcribe(context.Background(), Payload{Data: []byte("x")}, srv.URL, "tok", "sid")
	assert.Error(t, err)
	assert.Equal(t, StateIdle, rec.State())
}

func TestDecodeTranscript(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{"array first element", `[{"text": "one"}, {"text": "two"}]`, "one", false},
		{"transcription", `{"transcription": "yes"}`, "yes", false},
		{"text fallback", `{"text": "ok"}`, "ok", false},
		{"empty object", `{}`, "", false},
		{"empty array", `[]`, "", false},
		{"string scalar is silence", `"hello"`, "", false},
		{"number scalar is silence", `42`, "", false},
		{"bool scalar is silence", `true`, "", false},
		{"null is silence", `null`, "", false},
		{"garbage", `<<>>`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeTranscript([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
