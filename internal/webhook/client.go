// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package webhook implements the dispatch client for the chat completion
// endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jeranaias/voxchat-tui/internal/config"
)

// Configuration constants for webhook requests.
const (
	// DefaultTimeout bounds one dispatch round trip. The transport timeout is
	// the only deadline; there is no per-request retry budget.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps the response body read.
	// A runaway webhook must not be able to exhaust memory.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// FallbackReply is the fixed assistant text shown when a dispatch fails.
// Technical detail never leaks into the conversation; it goes to a toast.
const FallbackReply = "Sorry, I'm having trouble connecting to the AI service. " +
	"Please check your configuration and try again."

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrAuthMissing indicates no bearer token is configured.
	// Checked before any network I/O.
	ErrAuthMissing = errors.New("bearer token not configured")

	// ErrEmptyMessage indicates the message was blank after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoURL indicates no webhook URL is configured.
	ErrNoURL = errors.New("webhook URL not configured")
)

// HTTPError is returned for any non-2xx webhook response.
type HTTPError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// =============================================================================
// REQUEST / RESPONSE TYPES
// =============================================================================

// payload is the JSON body sent to the chat webhook.
type payload struct {
	Message    string `json:"message"`
	Model      string `json:"model"`
	SessionID  string `json:"sessionID"`
	Prompt     string `json:"prompt"`
	AdminEmail string `json:"admin_email"`
}

// response is the JSON body expected back.
type response struct {
	Output string `json:"output"`
}

// Request carries one dispatch: the trimmed user message plus the
// configuration read fresh at dispatch time.
type Request struct {
	Message   string
	Model     string
	SessionID string
	Config    config.Config
}

// =============================================================================
// CLIENT
// =============================================================================

// Shared HTTP client with connection pooling for all dispatch requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// Client sends user messages to the chat webhook.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a dispatch client using the shared pooled transport.
func NewClient() *Client {
	return &Client{httpClient: sharedHTTPClient}
}

// WithHTTPClient substitutes the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Send posts one message to the chat webhook and returns the normalized
// assistant reply.
//
// Preconditions are checked before any network call: a missing bearer token
// fails with ErrAuthMissing, a blank message with ErrEmptyMessage. On any
// failure after that — transport error, non-2xx status, unparseable body —
// the returned error carries what went wrong and no reply text is produced.
func (c *Client) Send(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Config.BearerToken) == "" {
		return "", ErrAuthMissing
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if strings.TrimSpace(req.Config.WebhookURL) == "" {
		return "", ErrNoURL
	}

	body, err := json.Marshal(payload{
		Message:    message,
		Model:      req.Model,
		SessionID:  req.SessionID,
		Prompt:     req.Config.SystemPrompt,
		AdminEmail: req.Config.AdminEmail,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		req.Config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.Config.BearerToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := readResponse(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPError{
			Status: resp.StatusCode,
			Body:   snippet(respBody),
		}
	}

	var parsed response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return FormatOutput(parsed.Output), nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// snippet trims an error body down to something toast-sized.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	runes := []rune(s)
	if len(runes) > 120 {
		return string(runes[:117]) + "..."
	}
	return s
}
