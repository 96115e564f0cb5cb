package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/joho/godotenv"
)

// TestAPIKey is the key every client under test must send.
const TestAPIKey = "test-key"

// FMPServer is an httptest stand-in for the FMP REST API. Routes map a
// request path (e.g. "/v3/profile/AAPL") to the JSON body served for it.
type FMPServer struct {
	*httptest.Server

	mu      sync.Mutex
	queries map[string][]string
	raw     []string
}

// NewFMPServer starts a fake FMP API serving canned JSON. Requests without
// apikey=TestAPIKey get a 401 and unknown paths a 404.
func NewFMPServer(t *testing.T, routes map[string]string) *FMPServer {
	t.Helper()

	s := &FMPServer{queries: make(map[string][]string)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apikey"); got != TestAPIKey {
			t.Errorf("request %s: expected apikey %q, got %q", r.URL.Path, TestAPIKey, got)
			http.Error(w, `{"Error Message":"Invalid API KEY."}`, http.StatusUnauthorized)
			return
		}

		s.mu.Lock()
		s.queries[r.URL.Path] = append(s.queries[r.URL.Path], r.URL.RawQuery)
		s.raw = append(s.raw, r.URL.EscapedPath())
		s.mu.Unlock()

		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

// Queries returns the raw query strings seen for path, in arrival order.
func (s *FMPServer) Queries(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries[path]...)
}

// RawPaths returns every request path as sent on the wire, before
// percent-decoding, in arrival order.
func (s *FMPServer) RawPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.raw...)
}

// Hits returns how many times path was requested.
func (s *FMPServer) Hits(path string) int {
	return len(s.Queries(path))
}

// LiveAPIKey loads ../../.env and returns FMP_API_KEY, skipping the test when
// it is unset.
func LiveAPIKey(t *testing.T) string {
	t.Helper()

	_ = godotenv.Load("../../.env")
	key := EnvOr("FMP_API_KEY", "")
	if key == "" {
		t.Skip("FMP_API_KEY not set, skipping")
	}
	return key
}

func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
