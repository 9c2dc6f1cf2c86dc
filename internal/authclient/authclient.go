// ABOUTME: Authenticated HTTP client with JWT bearer tokens and refresh-on-401
// ABOUTME: Refreshes the access token at most once per request before failing

package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authclient errors
var (
	ErrNoRefreshToken = errors.New("no refresh token available")
	ErrAuthExpired    = errors.New("authentication expired")
)

// expiryLeeway is how far ahead of the access token's exp claim we
// refresh proactively instead of waiting for a 401.
const expiryLeeway = 30 * time.Second

// TokenStore holds the current token pair. Implementations must be safe
// for concurrent use.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string)
}

// MemoryTokenStore is an in-memory TokenStore.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryTokenStore creates a token store seeded with the given pair.
func NewMemoryTokenStore(access, refresh string) *MemoryTokenStore {
	return &MemoryTokenStore{access: access, refresh: refresh}
}

func (s *MemoryTokenStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemoryTokenStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemoryTokenStore) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = token
}

// Client wraps an http.Client, attaching a bearer token to every request
// and refreshing it once when the server answers 401.
type Client struct {
	baseURL    string
	tokens     TokenStore
	httpClient *http.Client
	logger     *slog.Logger

	// onAuthExpired is invoked when a refresh attempt fails, meaning the
	// session cannot be recovered without re-authentication.
	onAuthExpired func()

	refreshMu sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithAuthExpiredHandler sets a callback invoked when token refresh fails.
func WithAuthExpiredHandler(fn func()) Option {
	return func(c *Client) {
		c.onAuthExpired = fn
	}
}

// New creates an authenticated client against the given API base URL.
func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default().With("component", "authclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends the request with a bearer token. If the access token is close
// to expiry it is refreshed first; if the server still answers 401 the
// token is refreshed and the request retried exactly once.
//
// Requests with a body must set req.GetBody (as http.NewRequest does for
// common body types) so the retry can replay it.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.tokenNearExpiry() {
		if err := c.refresh(req.Context()); err != nil {
			c.logger.Warn("proactive token refresh failed", "error", err)
		}
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// Drain so the connection can be reused before retrying
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if err := c.refresh(req.Context()); err != nil {
		c.tokens.SetAccessToken("")
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return nil, fmt.Errorf("%w: %v", ErrAuthExpired, err)
	}

	retry, err := cloneRequest(req)
	if err != nil {
		return nil, err
	}
	resp, err = c.send(retry)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		c.tokens.SetAccessToken("")
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return nil, fmt.Errorf("%w: still unauthorized after refresh", ErrAuthExpired)
	}
	return resp, nil
}

// PostJSON marshals body and POSTs it to the given API path.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.Do(req)
}

// GetJSON GETs the given API path and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.httpClient.Do(req)
}

// tokenNearExpiry reports whether the access token's exp claim falls
// within the refresh leeway. Tokens without a parseable exp claim are
// left to the 401 path.
func (c *Client) tokenNearExpiry() bool {
	token := c.tokens.AccessToken()
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < expiryLeeway
}

// refresh exchanges the refresh token for a new access token. Only one
// refresh runs at a time; callers that were queued behind a successful
// refresh reuse its result.
func (c *Client) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return fmt.Errorf("marshaling refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh/", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending refresh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}

	var result struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding refresh response: %w", err)
	}
	if result.Access == "" {
		return errors.New("refresh response missing access token")
	}

	c.tokens.SetAccessToken(result.Access)
	c.logger.Debug("access token refreshed")
	return nil
}

// cloneRequest makes a retryable copy of req, replaying the body via
// GetBody when present.
func cloneRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.GetBody == nil {
		return clone, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("replaying request body: %w", err)
	}
	clone.Body = body
	return clone, nil
}
