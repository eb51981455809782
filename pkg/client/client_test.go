package client

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T, url string, rps float64) {
	t.Helper()
	mu.Lock()
	httpClient = nil
	authToken = ""
	onUnauthorized = nil
	mu.Unlock()
	Configure(Options{BaseURL: url, Timeout: 5 * time.Second, MaxRPS: rps})
}

func TestGetClientSingleton(t *testing.T) {
	reset(t, "http://localhost:0", 0)
	assert.Same(t, GetClient(), GetClient())
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reset(t, srv.URL, 0)
	SetAuthToken("tok-123")
	assert.True(t, HasAuthToken())

	_, err := GetClient().R().Get("/api/posts")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, UserAgent, got.Get("User-Agent"))
	_, err = uuid.Parse(got.Get(RequestIDHeader))
	assert.NoError(t, err)

	ClearAuthToken()
	assert.False(t, HasAuthToken())
	_, err = GetClient().R().Get("/api/posts")
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
}

func TestTokenSurvivesReconfigure(t *testing.T) {
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	reset(t, srv.URL, 0)
	SetAuthToken("kept")
	Configure(Options{BaseURL: srv.URL})

	_, err := GetClient().R().Get("/")
	require.NoError(t, err)
	assert.Equal(t, "Bearer kept", auth.Load())
}

func TestUnauthorizedHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	reset(t, srv.URL, 0)
	var calls atomic.Int32
	SetUnauthorizedHandler(func() { calls.Add(1) })

	// anonymous requests are not a session problem
	_, err := GetClient().R().Get("/api/notifications")
	require.NoError(t, err)
	assert.Equal(t, int32(0), calls.Load())

	SetAuthToken("stale")
	resp, err := GetClient().R().Get("/api/notifications")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Equal(t, int32(1), calls.Load())
}

func TestRateLimit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	reset(t, srv.URL, 20)
	start := time.Now()
	for i := 0; i < 25; i++ {
		_, err := GetClient().R().Get("/")
		require.NoError(t, err)
	}
	// burst of 20, then 5 more at 20/s
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
	assert.Equal(t, int32(25), hits.Load())
}
