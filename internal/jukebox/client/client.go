package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	jerrors "github.com/tessro/jukebox/internal/errors"
)

const (
	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 30 * time.Second

	// Retry configuration for transient errors on GET requests
	defaultRetries = 3
	baseRetryWait  = 500 * time.Millisecond

	userAgent = "jukebox-cli"
)

// Client talks to the jukebox HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retries    int
	retryWait  time.Duration
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRetries sets how many times a GET is retried after a transient failure.
// POSTs change jukebox state and are sent once.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithRetryWait sets the base wait between retries. It doubles per attempt.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) {
		c.retryWait = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the jukebox at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(u.String(), "/"),
		retries:    defaultRetries,
		retryWait:  baseRetryWait,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL resolves an API path against the base URL.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Get performs a GET request against the jukebox API.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.request(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request against the jukebox API.
func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.request(ctx, http.MethodPost, path, body, result)
}

func (c *Client) request(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	fullURL := c.URL(path)
	requestID := uuid.NewString()
	logger := c.logger.With().
		Str("method", method).
		Str("url", fullURL).
		Str("request_id", requestID).
		Logger()

	if jsonBody != nil {
		logger.Debug().RawJSON("body", jsonBody).Msg("jukebox request")
	} else {
		logger.Debug().Msg("jukebox request")
	}

	retries := c.retries
	if method != http.MethodGet {
		retries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			wait := c.retryWait * time.Duration(1<<(attempt-1))
			logger.Debug().
				Int("attempt", attempt).
				Int("max", retries).
				Dur("wait", wait).
				AnErr("last_error", lastErr).
				Msg("retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("X-Request-ID", requestID)
		if jsonBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", jerrors.ErrServerUnreachable, err)
			logger.Debug().Err(err).Msg("network error")
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			logger.Debug().Err(err).Msg("read error")
			continue
		}

		logger.Debug().Int("status", resp.StatusCode).Msg("jukebox response")

		if resp.StatusCode >= 500 {
			lastErr = newAPIError(method, path, resp.StatusCode, respBody)
			logger.Debug().Err(lastErr).Msg("server error")
			continue
		}

		if resp.StatusCode >= 400 {
			return newAPIError(method, path, resp.StatusCode, respBody)
		}

		if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to parse response from %s: %w", path, err)
			}
		}

		return nil
	}

	if retries == 0 {
		return lastErr
	}
	return fmt.Errorf("request failed after %d retries: %w", retries, lastErr)
}

// APIError is a non-2xx response from the jukebox.
type APIError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("jukebox API error: status %d on %s %s: %s", e.Status, e.Method, e.Path, e.Detail)
	}
	return fmt.Sprintf("jukebox API error: status %d on %s %s", e.Status, e.Method, e.Path)
}

// IsNotFound returns true for 404 responses.
func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// IsServerError returns true for 5xx responses.
func (e *APIError) IsServerError() bool {
	return e.Status >= 500
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Method: method,
		Path:   path,
		Status: status,
		Detail: parseDetail(body),
	}
}

// parseDetail extracts the message from a {"detail": ...} or {"error": ...}
// body, falling back to the raw text.
func parseDetail(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Detail) > 0 {
			var s string
			if err := json.Unmarshal(payload.Detail, &s); err == nil {
				return s
			}
			return string(payload.Detail)
		}
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	const maxDetail = 200
	if len(body) > maxDetail {
		return string(body[:maxDetail]) + "..."
	}
	return string(body)
}

// IsAPIError reports whether err is an APIError with the given status.
func IsAPIError(err error, status int) bool {
	var apiErr *APIError
	if jerrors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}
