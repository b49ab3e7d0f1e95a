// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice implements the microphone capture and transcription pipeline.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

// transcribeTimeout bounds one transcription round trip.
const transcribeTimeout = 60 * time.Second

// Shared HTTP client for transcription uploads.
var transcribeHTTPClient = &http.Client{Timeout: transcribeTimeout}

// Transcribe uploads a finalized payload to the transcription webhook and
// returns the recognized text. An empty result means "no speech detected"
// and is a valid outcome, not an error.
//
// The caller is responsible for checking that token and url are configured
// before invoking; the pipeline never fabricates those errors itself.
// Whatever happens, the pipeline settles back to idle before returning.
func (r *Recorder) Transcribe(ctx context.Context, payload Payload, url, token, sessionID string) (string, error) {
	defer r.settle()
	return transcribe(ctx, r.httpClient(), payload, url, token, sessionID)
}

// httpClient returns the client to use for uploads.
func (r *Recorder) httpClient() *http.Client {
	if r.client != nil {
		return r.client
	}
	return transcribeHTTPClient
}

// WithHTTPClient substitutes the upload client. Used by tests.
func (r *Recorder) WithHTTPClient(client *http.Client) *Recorder {
	r.client = client
	return r
}

// transcribe performs the multipart POST.
func transcribe(ctx context.Context, client *http.Client, payload Payload, url, token, sessionID string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	// The audio part carries an explicit content type; CreateFormFile would
	// label it application/octet-stream.
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="audio"; filename=%q`, PayloadFilename))
	header.Set("Content-Type", PayloadContentType)

	fw, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := fw.Write(payload.Data); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}
	if err := mw.WriteField("sessionID", sessionID); err != nil {
		return "", fmt.Errorf("write sessionID field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", token)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d", ErrTranscriptionFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	text, err := decodeTranscript(data)
	if err != nil {
		return "", err
	}
	return text, nil
}

// =============================================================================
// RESPONSE DECODING
// =============================================================================

// Transcription webhooks answer in one of three known shapes. They are tried
// in a fixed precedence order; any other well-formed JSON decodes to empty
// text, which signals "no speech detected" rather than a failure.
type arrayShape []struct {
	Text string `json:"text"`
}

type objectShape struct {
	Transcription string `json:"transcription"`
	Text          string `json:"text"`
}

// decodeTranscript extracts recognized text from a transcription response:
//
//  1. array of objects — the "text" field of the first element
//  2. top-level "transcription" field
//  3. top-level "text" field
//  4. otherwise, empty string
func decodeTranscript(data []byte) (string, error) {
	var asArray arrayShape
	if err := json.Unmarshal(data, &asArray); err == nil {
		if len(asArray) > 0 && asArray[0].Text != "" {
			return asArray[0].Text, nil
		}
		return "", nil
	}

	var asObject objectShape
	if err := json.Unmarshal(data, &asObject); err != nil {
		// Scalars ("hi", 42, true) fit neither shape but are still valid
		// responses carrying no recognized speech.
		if json.Valid(data) {
			return "", nil
		}
		return "", fmt.Errorf("parse transcription response: %w", err)
	}
	if asObject.Transcription != "" {
		return asObject.Transcription, nil
	}
	return asObject.Text, nil
}
