// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Configuration constants for the completion service.
const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "https://chat-backend-574509643233.us-east4.run.app"

	// ChatPath is the completion endpoint relative to the base URL.
	ChatPath = "/api/chat"

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024
)

// ChatRequest is the body of a completion request.
type ChatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

// ChatReply is the body of a successful completion response. Message is a
// pointer so a missing field can be told apart from an empty reply.
type ChatReply struct {
	Message *string `json:"message"`
}

// Client talks to the completion service. It holds no per-request state and
// is safe for concurrent use; callers that need single-flight behaviour must
// enforce it themselves.
type Client struct {
	baseURL   string
	http      *resty.Client
	log       *logrus.Entry
	timeout   time.Duration
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger routes client diagnostics to the given entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Client) {
		if entry != nil {
			c.log = entry
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the service at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		baseURL:   base,
		log:       logrus.NewEntry(discard),
		userAgent: "dva",
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(c.baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", c.userAgent).
		SetLogger(c.log).
		SetDisableWarn(true).
		SetRetryCount(0)
	if c.timeout > 0 {
		c.http.SetTimeout(c.timeout)
	}

	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint returns the full completion URL.
func (c *Client) Endpoint() string {
	return c.baseURL + ChatPath
}

// Send posts one utterance with the chosen model and returns the reply text.
//
// Errors are one of:
//   - *ServerError when the service answered with a non-2xx status
//   - an error wrapping ErrNoResponse when nothing came back
//   - an error wrapping ErrUnknown for anything else
func (c *Client) Send(ctx context.Context, utterance, modelID string) (string, error) {
	start := time.Now()
	log := c.log.WithField("model", modelID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ChatRequest{Message: utterance, Model: modelID}).
		Post(ChatPath)
	if err != nil {
		if resp == nil || resp.RawResponse == nil {
			log.WithError(err).Warn("completion request got no response")
			return "", fmt.Errorf("%w: %w", ErrNoResponse, err)
		}
		log.WithError(err).Warn("completion request failed")
		return "", fmt.Errorf("%w: %w", ErrUnknown, err)
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode(),
		"duration": time.Since(start).Round(time.Millisecond),
	})

	if !resp.IsSuccess() {
		log.Warn("completion service returned an error status")
		return "", &ServerError{Status: resp.StatusCode(), Body: truncateBody(resp.Body())}
	}

	body := resp.Body()
	if len(body) > MaxResponseSize {
		log.Warn("completion reply exceeds size limit")
		return "", fmt.Errorf("%w: reply exceeds %d bytes", ErrMalformedReply, MaxResponseSize)
	}

	var reply ChatReply
	if err := json.Unmarshal(body, &reply); err != nil {
		log.WithError(err).Warn("completion reply is not valid JSON")
		return "", fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}
	if reply.Message == nil {
		log.Warn("completion reply has no message field")
		return "", ErrMalformedReply
	}

	log.Debug("completion received")
	return *reply.Message, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}
	return strings.TrimSuffix(raw, "/"), nil
}

func truncateBody(b []byte) string {
	const limit = 512
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
