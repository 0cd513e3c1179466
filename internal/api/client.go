// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/docchat/docchat-tui/internal/config"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeInvalidResponse
	ErrTypeBackend
)

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeConnection, Message: "backend is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// Is lets errors.Is match sentinel client errors by type.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsTimeout reports whether err is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend host, e.g. "http://127.0.0.1:8000"
	BaseURL string

	// Prefix is the shared path prefix, e.g. "api/v1"
	Prefix string

	// Model is the default model_name for generate requests
	Model string

	// Timeout bounds each request (default: 60s)
	Timeout time.Duration
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:8000",
		Prefix:  "api/v1",
		Model:   "mistral",
		Timeout: 60 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the docchat backend.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a client with custom configuration. A nil config means
// defaults; zero fields are filled from the defaults.
func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = DefaultClientConfig()
	}
	def := DefaultClientConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// NewClientFromConfig creates a client from the application configuration.
func NewClientFromConfig(cfg *config.Config) *Client {
	return NewClient(&ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Prefix:  cfg.API.Prefix,
		Model:   cfg.API.Model,
		Timeout: cfg.RequestTimeout(),
	})
}

// DefaultModel returns the configured model_name.
func (c *Client) DefaultModel() string {
	return c.config.Model
}

// endpoint joins the base URL, prefix and endpoint path.
func (c *Client) endpoint(path string) string {
	base := strings.TrimRight(c.config.BaseURL, "/")
	prefix := strings.Trim(c.config.Prefix, "/")
	path = strings.TrimLeft(path, "/")
	if prefix == "" {
		return base + "/" + path
	}
	return base + "/" + prefix + "/" + path
}

// =============================================================================
// GENERATE
// =============================================================================

// Generate requests a model completion for prompt, conditioned on the
// serialized conversation context. An empty model falls back to the
// configured default.
func (c *Client) Generate(ctx context.Context, model, prompt, chatContext string) (string, error) {
	if model == "" {
		model = c.config.Model
	}

	req := GenerateRequest{
		ModelName: model,
		Prompt:    prompt,
		Context:   chatContext,
	}

	var result GenerateResult
	if err := c.post(ctx, "model/generate", req, &result); err != nil {
		return "", err
	}
	return result.Completion, nil
}

// =============================================================================
// FILE UPLOAD
// =============================================================================

// UploadFile sends a base64-encoded file to the backend and returns the
// server-side path it was stored under.
func (c *Client) UploadFile(ctx context.Context, req UploadRequest) (string, error) {
	var result UploadResult
	if err := c.post(ctx, "file/upload", req, &result); err != nil {
		return "", err
	}
	if result.FilePath == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "upload response missing file path"}
	}
	return result.FilePath, nil
}

// =============================================================================
// DOCUMENT CONTEXT
// =============================================================================

// GenerateContext asks the backend to process an uploaded file and extract
// context relevant to queryText.
func (c *Client) GenerateContext(ctx context.Context, filePath, queryText string) (string, error) {
	if queryText == "" {
		queryText = "Extract key information from this document"
	}

	req := ContextRequest{
		FilePath:  filePath,
		QueryText: queryText,
	}

	var result ContextResult
	if err := c.post(ctx, "rag/process-and-get-context", req, &result); err != nil {
		return "", err
	}
	if result.GeneratedContext == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "no context was generated"}
	}
	return result.GeneratedContext, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// post sends a JSON request and decodes the enveloped result into out.
// A 2xx response without a result field is an invalid-response error.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeConnection, Message: "backend is unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The backend reports failures in the envelope description.
		var envelope Envelope[json.RawMessage]
		if derr := json.NewDecoder(resp.Body).Decode(&envelope); derr == nil && envelope.Description != "" {
			return &ClientError{Type: ErrTypeBackend, Message: envelope.Description}
		}
		return &ClientError{Type: ErrTypeBackend, Message: "request failed: " + resp.Status}
	}

	raw := Envelope[json.RawMessage]{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if raw.Result == nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "response missing result field"}
	}
	if err := json.Unmarshal(*raw.Result, out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode result", Cause: err}
	}
	return nil
}
