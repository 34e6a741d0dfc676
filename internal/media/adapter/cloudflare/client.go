// Package cloudflare implements a minimal Cloudflare Images API client
// covering the calls the metadata migration needs.
package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	apperrors "motive-archive/internal/shared/errors"
	"motive-archive/internal/shared/logger"
)

const defaultBaseURL = "https://api.cloudflare.com/client/v4"

// deliveryURLPattern matches Cloudflare Images delivery URLs:
// https://imagedelivery.net/<account-hash>/<image-id>/<variant> and the
// zone-proxied /cdn-cgi/imagedelivery/<account-hash>/<image-id>/ form
var deliveryURLPattern = regexp.MustCompile(`(?:imagedelivery\.net|/cdn-cgi/imagedelivery)/[^/]+/([^/]+)`)

// ImageDetails is the subset of the Cloudflare Images response the
// archive stores
type ImageDetails struct {
	ID       string                 `json:"id"`
	Filename string                 `json:"filename"`
	Uploaded time.Time              `json:"uploaded"`
	Metadata map[string]interface{} `json:"meta"`
	Variants []string               `json:"variants"`
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// ImagesAPI is the Cloudflare surface the migration worker depends on
type ImagesAPI interface {
	GetImage(ctx context.Context, imageID string) (*ImageDetails, error)
	DeleteImage(ctx context.Context, imageID string) error
}

// Client talks to the Cloudflare Images REST API
type Client struct {
	baseURL   string
	accountID string
	apiToken  string
	http      *http.Client
	log       logger.Logger
}

// NewClient creates a Cloudflare Images client
func NewClient(accountID, apiToken string, log logger.Logger) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		accountID: accountID,
		apiToken:  apiToken,
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       log.WithComponent("cloudflare_images"),
	}
}

// WithBaseURL overrides the API endpoint, used by tests
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// GetImage fetches the stored details for an image ID
func (c *Client) GetImage(ctx context.Context, imageID string) (*ImageDetails, error) {
	var details ImageDetails
	path := fmt.Sprintf("/accounts/%s/images/v1/%s", c.accountID, imageID)
	if err := c.do(ctx, http.MethodGet, path, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// DeleteImage removes an image from Cloudflare Images
func (c *Client) DeleteImage(ctx context.Context, imageID string) error {
	path := fmt.Sprintf("/accounts/%s/images/v1/%s", c.accountID, imageID)
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cloudflare request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.NewRateLimitedError("cloudflare images rate limit hit")
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError(fmt.Sprintf("image not found on cloudflare: %s", path))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("cloudflare returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode cloudflare response: %w", err)
	}
	if !envelope.Success {
		if len(envelope.Errors) > 0 {
			return fmt.Errorf("cloudflare error %d: %s", envelope.Errors[0].Code, envelope.Errors[0].Message)
		}
		return fmt.Errorf("cloudflare request unsuccessful")
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to decode cloudflare result: %w", err)
		}
	}
	return nil
}

// ExtractImageID pulls the Cloudflare image ID out of a delivery URL.
// Returns an empty string when the URL is not a delivery URL.
func ExtractImageID(url string) string {
	matches := deliveryURLPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

var _ ImagesAPI = (*Client)(nil)
