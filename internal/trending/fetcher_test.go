package trending

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testFetcher(maxRetries int) *PageFetcher {
	return NewPageFetcher(FetcherConfig{
		UserAgent:  "test-agent/1.0",
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
		Backoff:    Backoff{Initial: time.Millisecond, Max: 5 * time.Millisecond},
	}, zap.NewNop())
}

func TestFetchReturnsBodyAndSendsUserAgent(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Write([]byte("<html>ok</html>")) //nolint:errcheck // test handler
	}))
	defer srv.Close()

	body, err := testFetcher(0).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != "<html>ok</html>" {
		t.Errorf("body = %q", body)
	}
	if ua, _ := gotUA.Load().(string); ua != "test-agent/1.0" {
		t.Errorf("user agent = %q", ua)
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	body, err := testFetcher(2).Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected fetch to fail")
	}
	if !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
	if body != nil {
		t.Errorf("expected nil body, got %q", body)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3 (initial + 2 retries)", got)
	}
}

func TestFetchSucceedsOnFinalAttempt(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("finally")) //nolint:errcheck // test handler
	}))
	defer srv.Close()

	body, err := testFetcher(2).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != "finally" {
		t.Errorf("body = %q", body)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	deadURL := srv.URL
	srv.Close()

	_, err := testFetcher(1).Fetch(context.Background(), deadURL)
	if !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestFetchCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := testFetcher(3).Fetch(ctx, srv.URL)
	if err == nil {
		t.Fatal("expected fetch to fail")
	}
	if !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure wrapper, got %v", err)
	}
}
