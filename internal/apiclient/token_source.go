package apiclient

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TokenSource produces bearer tokens for outbound API calls
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to the TokenSource interface
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// defaultTokenTTL matches the session token cache window
const defaultTokenTTL = 120 * time.Second

// CachingTokenSource caches the upstream token for a TTL and collapses
// concurrent refreshes into a single in-flight fetch
type CachingTokenSource struct {
	source TokenSource
	ttl    time.Duration

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	group singleflight.Group
	now   func() time.Time
}

// NewCachingTokenSource wraps a token source with a TTL cache. A zero
// ttl uses the 120 second default.
func NewCachingTokenSource(source TokenSource, ttl time.Duration) *CachingTokenSource {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &CachingTokenSource{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Token returns the cached token, fetching a fresh one when the cache
// is empty or expired. Concurrent callers share one upstream fetch.
func (c *CachingTokenSource) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && c.now().Before(c.expiresAt) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	value, err, _ := c.group.Do("token", func() (interface{}, error) {
		token, err := c.source.Token(ctx)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.token = token
		c.expiresAt = c.now().Add(c.ttl)
		c.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// Invalidate drops the cached token so the next call fetches a new one
func (c *CachingTokenSource) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}
