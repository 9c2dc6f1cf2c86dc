// ABOUTME: HTTP client for the chatbot webhook endpoint.
// ABOUTME: POSTs {"message", "sender_id"} and extracts the reply with field fallback.

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// FallbackReply is shown when the backend answers with a well-formed JSON
// body that carries no recognized reply field.
const FallbackReply = "No response"

// maxResponseBytes bounds how much of a webhook response is read. Replies
// are short chat messages; anything larger is a misbehaving backend.
const maxResponseBytes = 1 << 20

// request is the JSON body sent to POST {base}/chatbot/webhook/{key}/.
type request struct {
	Message  string `json:"message"`
	SenderID string `json:"sender_id"`
}

// response is the JSON body expected back. The backend replies under
// "reply"; "message" is tolerated for older backends.
type response struct {
	Reply   string `json:"reply"`
	Message string `json:"message"`
}

// Client exchanges messages with a chatbot backend webhook. Correlation of
// conversation turns happens solely through the sender identifier in the
// request body; the client never sets or reads cookies.
type Client struct {
	baseURL    string
	webhookKey string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a webhook client for the given backend base URL and
// webhook key. A trailing slash on baseURL is tolerated.
func New(baseURL, webhookKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		webhookKey: webhookKey,
		httpClient: http.DefaultClient,
		logger:     slog.Default().With("component", "webhook"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the webhook endpoint this client posts to.
func (c *Client) URL() string {
	return fmt.Sprintf("%s/chatbot/webhook/%s/", c.baseURL, c.webhookKey)
}

// Send posts one message and returns the backend's reply text. Any
// network-level failure, non-2xx status, or non-JSON body is returned as
// an error; callers treat all of them uniformly as a dispatch failure.
func (c *Client) Send(ctx context.Context, senderID, text string) (string, error) {
	body, err := json.Marshal(request{
		Message:  text,
		SenderID: senderID,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused, then fail uniformly
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	reply := parsed.Reply
	if reply == "" {
		reply = parsed.Message
	}
	if reply == "" {
		c.logger.Debug("response carried no reply field, using fallback")
		reply = FallbackReply
	}

	return reply, nil
}
