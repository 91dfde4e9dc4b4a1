// Package slack delivers feedback payloads to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/julianstephens/slackfeedback/internal/constants"
	"github.com/julianstephens/slackfeedback/internal/logger"
	"github.com/julianstephens/slackfeedback/internal/widget"
)

// ErrNotConfigured is returned by Send when no webhook URL is set.
var ErrNotConfigured = errors.New("slack webhook is not configured")

// maxErrorBody caps how much of a failed response is kept.
const maxErrorBody = 4 << 10

// StatusError is a non-2xx webhook response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("slack webhook returned %d", e.Code)
	}
	return fmt.Sprintf("slack webhook returned %d: %s", e.Code, e.Body)
}

// StatusCode returns the HTTP status of the response.
func (e *StatusError) StatusCode() int { return e.Code }

// Client posts payloads to one webhook URL.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient creates a client for webhookURL.
func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: constants.WebhookTimeout},
	}
}

// WithHTTPClient replaces the HTTP client used for requests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Configured reports whether a webhook URL is set.
func (c *Client) Configured() bool { return c.webhookURL != "" }

// Send posts the payload. Rejections by Slack come back as *StatusError.
func (c *Client) Send(ctx context.Context, p widget.Payload) error {
	if c.webhookURL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("slack marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req) //nolint:gosec // webhook URL from trusted config
	if err != nil {
		return fmt.Errorf("slack send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Debug("Slack rejected payload", "status", resp.StatusCode, "body", string(respBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return nil
}

// SubmitFunc adapts the client to the widget's submit collaborator. The
// request is bounded by the webhook timeout even when ctx has no deadline.
func (c *Client) SubmitFunc() widget.SubmitFunc {
	return func(ctx context.Context, p widget.Payload) error {
		ctx, cancel := context.WithTimeout(ctx, constants.WebhookTimeout)
		defer cancel()
		return c.Send(ctx, p)
	}
}
