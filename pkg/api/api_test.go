package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/YagorVitor/CodeReview/pkg/client"
)

// newServer points the shared client at a test server running handler.
func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client.Configure(client.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	return srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
