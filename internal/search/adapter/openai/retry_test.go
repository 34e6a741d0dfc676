package openai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motive-archive/internal/shared/logger"
)

type fakeNetError struct{}

func (fakeNetError) Error() string   { return "connection reset" }
func (fakeNetError) Timeout() bool   { return true }
func (fakeNetError) Temporary() bool { return true }

func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), logger.NewLogger(), 3, "embed", func() error {
		calls++
		if calls < 3 {
			return fakeNetError{}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), logger.NewLogger(), 3, "embed", func() error {
		calls++
		return fakeNetError{}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryFailsFastOnNonRetryable(t *testing.T) {
	calls := 0
	permanent := errors.New("invalid request")
	err := withRetry(context.Background(), logger.NewLogger(), 3, "embed", func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	err := withRetry(ctx, logger.NewLogger(), 3, "embed", func() error {
		calls++
		return fakeNetError{}
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&openai.Error{StatusCode: 429}))
	assert.True(t, isRetryable(&openai.Error{StatusCode: 500}))
	assert.True(t, isRetryable(&openai.Error{StatusCode: 503}))
	assert.False(t, isRetryable(&openai.Error{StatusCode: 400}))
	assert.False(t, isRetryable(&openai.Error{StatusCode: 401}))
	assert.True(t, isRetryable(fakeNetError{}))
	assert.False(t, isRetryable(errors.New("bad input")))
}
