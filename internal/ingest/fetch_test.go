package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testFetcherConfig() FetcherConfig {
	cfg := DefaultFetcherConfig()
	cfg.Timeout = 2 * time.Second
	cfg.RatePerSecond = 1000
	cfg.RateBurst = 1000
	return cfg
}

func TestHTTPFetcher_ReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testFetcherConfig())
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch should succeed: %v", err)
	}
	if string(body) != "payload" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestHTTPFetcher_NonOKStatusIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testFetcherConfig())
	_, err := f.Fetch(context.Background(), srv.URL)

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if ne.Status != http.StatusForbidden {
		t.Errorf("expected status 403 in error, got %d", ne.Status)
	}
}

func TestHTTPFetcher_TransportFailureIsNetworkError(t *testing.T) {
	f := NewHTTPFetcher(testFetcherConfig())
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestHTTPFetcher_SendsRotatedIdentityHeaders(t *testing.T) {
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.Header.Get("User-Agent"))
		if r.Header.Get("Accept-Language") == "" {
			t.Error("default headers missing from request")
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testFetcherConfig())
	for i := 0; i < 10; i++ {
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}

	for i := 1; i < len(agents); i++ {
		if agents[i] == agents[i-1] {
			t.Errorf("consecutive requests %d and %d reused identity %q", i-1, i, agents[i])
		}
	}
}

func TestNextAgent_NeverRepeatsWithPoolOfTwo(t *testing.T) {
	cfg := testFetcherConfig()
	cfg.UserAgents = []string{"agent-a", "agent-b"}
	f := NewHTTPFetcher(cfg)

	prev := f.nextAgent()
	for i := 0; i < 50; i++ {
		next := f.nextAgent()
		if next == prev {
			t.Fatalf("iteration %d repeated identity %q", i, next)
		}
		prev = next
	}
}

func TestNextAgent_SingleEntryPoolAllowed(t *testing.T) {
	cfg := testFetcherConfig()
	cfg.UserAgents = []string{"only"}
	f := NewHTTPFetcher(cfg)

	for i := 0; i < 3; i++ {
		if f.nextAgent() != "only" {
			t.Fatal("single-entry pool must keep serving its identity")
		}
	}
}

func TestHTTPFetcher_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testFetcherConfig()
	cfg.BreakerMaxFail = 2
	f := NewHTTPFetcher(cfg)

	for i := 0; i < 5; i++ {
		if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
			t.Fatal("expected failure")
		}
	}

	// Once open, failures surface without dialing; still NetworkError.
	var ne *NetworkError
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.As(err, &ne) {
		t.Fatalf("open breaker should still yield NetworkError, got %v", err)
	}
}
