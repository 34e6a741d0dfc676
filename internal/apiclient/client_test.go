package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motive-archive/internal/shared/logger"
)

func countingSource(counter *int32) TokenSource {
	return TokenFunc(func(ctx context.Context) (string, error) {
		n := atomic.AddInt32(counter, 1)
		return fmt.Sprintf("token-%d", n), nil
	})
}

func TestCachingTokenSourceReusesWithinTTL(t *testing.T) {
	var fetches int32
	cache := NewCachingTokenSource(countingSource(&fetches), 120*time.Second)

	first, err := cache.Token(context.Background())
	require.NoError(t, err)
	second, err := cache.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}

func TestCachingTokenSourceRefreshesAfterTTL(t *testing.T) {
	var fetches int32
	cache := NewCachingTokenSource(countingSource(&fetches), time.Minute)

	current := time.Now()
	cache.now = func() time.Time { return current }

	first, err := cache.Token(context.Background())
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)

	second, err := cache.Token(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
}

func TestCachingTokenSourceCollapsesConcurrentFetches(t *testing.T) {
	var fetches int32
	started := make(chan struct{})
	release := make(chan struct{})
	slow := TokenFunc(func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&fetches, 1) == 1 {
			close(started)
		}
		<-release
		return "shared-token", nil
	})
	cache := NewCachingTokenSource(slow, time.Minute)

	const callers = 10
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := cache.Token(context.Background())
			assert.NoError(t, err)
			tokens[i] = token
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
	for _, token := range tokens {
		assert.Equal(t, "shared-token", token)
	}
}

func TestGetJSONSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	}))
	defer server.Close()

	var fetches int32
	client := NewClient(Config{BaseURL: server.URL}, countingSource(&fetches), logger.NewLogger())

	var out map[string]string
	err := client.GetJSON(context.Background(), "/health", &out)

	require.NoError(t, err)
	assert.Equal(t, "ok", out["status"])
}

func TestUnauthorizedTriggersOneRefreshAndRetry(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer token-2", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id":"car1"}`)
	}))
	defer server.Close()

	var fetches int32
	client := NewClient(Config{BaseURL: server.URL}, countingSource(&fetches), logger.NewLogger())

	var out map[string]string
	err := client.GetJSON(context.Background(), "/api/cars/car1", &out)

	require.NoError(t, err)
	assert.Equal(t, "car1", out["id"])
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
}

func TestSecondUnauthorizedIsTerminal(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var fetches int32
	client := NewClient(Config{BaseURL: server.URL}, countingSource(&fetches), logger.NewLogger())

	err := client.GetJSON(context.Background(), "/api/cars", nil)

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestPostJSONEncodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"created"}`)
	}))
	defer server.Close()

	var fetches int32
	client := NewClient(Config{BaseURL: server.URL}, countingSource(&fetches), logger.NewLogger())

	var out map[string]string
	err := client.PostJSON(context.Background(), "/api/cars", map[string]string{"make": "Porsche"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "created", out["id"])
}

func TestNonSuccessStatusReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	var fetches int32
	client := NewClient(Config{BaseURL: server.URL}, countingSource(&fetches), logger.NewLogger())

	err := client.GetJSON(context.Background(), "/api/cars/missing", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
