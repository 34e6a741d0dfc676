package openai

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/openai/openai-go"

	"motive-archive/internal/shared/logger"
)

// retry policy for OpenAI calls: rate limits and transient server or
// transport failures back off and retry, everything else fails fast
const (
	defaultMaxAttempts = 3
	baseRetryDelay     = 500 * time.Millisecond
)

// withRetry executes fn with exponential backoff: 500ms, 1s, 2s
func withRetry(ctx context.Context, log logger.Logger, maxAttempts int, op string, fn func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var lastErr error
	delay := baseRetryDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
		if attempt == maxAttempts {
			break
		}

		log.Warnf("OpenAI %s failed (attempt %d/%d), retrying in %s: %v",
			op, attempt, maxAttempts, delay, lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return lastErr
}

// isRetryable reports whether an error is worth another attempt:
// 429, any 5xx, or a transport-level failure
func isRetryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return false
}
