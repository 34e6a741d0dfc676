package apiclient

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

	"motive-archive/internal/shared/logger"
)

// ErrAuthenticationFailed is returned when a request still gets 401
// after a forced token refresh
var ErrAuthenticationFailed = errors.New("authentication failed after token refresh")

// Client is an authenticated JSON client for service-to-service calls
// against the archive API
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *CachingTokenSource
	log     logger.Logger
}

// Config holds the client settings
type Config struct {
	BaseURL  string
	TokenTTL time.Duration
	Timeout  time.Duration
}

// NewClient creates an API client. The token source is wrapped in the
// TTL cache so callers never fetch tokens directly.
func NewClient(cfg Config, source TokenSource, log logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  NewCachingTokenSource(source, cfg.TokenTTL),
		log:     log.WithComponent("api_client"),
	}
}

// GetJSON performs a GET request and decodes the JSON response into out
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// PostJSON performs a POST request with a JSON body and decodes the
// JSON response into out. out may be nil.
func (c *Client) PostJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, path, payload, out)
}

// doJSON sends the request with a bearer token. A 401 invalidates the
// cached token and retries exactly once with a fresh one; a second 401
// is terminal.
func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, out interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.tokens.Invalidate()
		c.log.WithContext(ctx).Debugf("Got 401 from %s %s, refreshing token and retrying", method, path)

		resp, err = c.send(ctx, method, path, body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			return ErrAuthenticationFailed
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d from %s %s: %s", resp.StatusCode, method, path, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain token: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.http.Do(req)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
