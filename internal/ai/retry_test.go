package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func recordingSleep(waits *[]time.Duration) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestDoWithRetryReturnsFirstNon429Immediately(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var waits []time.Duration
	resp, err := doWithRetry(context.Background(), srv.Client(), srv.URL, http.Header{}, []byte("{}"), 3, recordingSleep(&waits))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls)
	}
	if len(waits) != 0 {
		t.Fatalf("expected no backoff waits, got %v", waits)
	}
}

func TestDoWithRetryRetriesRateLimitWithExponentialBackoff(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var waits []time.Duration
	resp, err := doWithRetry(context.Background(), srv.Client(), srv.URL, http.Header{}, []byte("{}"), 3, recordingSleep(&waits))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 after retries, got %d", resp.StatusCode)
	}
	if calls != 3 {
		t.Fatalf("expected 3 upstream calls, got %d", calls)
	}
	if len(waits) != 2 || waits[0] != 1*time.Second || waits[1] != 2*time.Second {
		t.Fatalf("expected waits [1s 2s], got %v", waits)
	}
}

func TestDoWithRetryReturnsLast429WhenAttemptsExhausted(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var waits []time.Duration
	resp, err := doWithRetry(context.Background(), srv.Client(), srv.URL, http.Header{}, []byte("{}"), 3, recordingSleep(&waits))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected final 429, got %d", resp.StatusCode)
	}
	if calls != 3 {
		t.Fatalf("expected 3 upstream calls, got %d", calls)
	}
	if len(waits) != 2 {
		t.Fatalf("expected 2 backoff waits before the final 429, got %v", waits)
	}
}

func TestDoWithRetryServerErrorIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var waits []time.Duration
	resp, err := doWithRetry(context.Background(), srv.Client(), srv.URL, http.Header{}, []byte("{}"), 3, recordingSleep(&waits))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 passed through, got %d", resp.StatusCode)
	}
	if calls != 1 {
		t.Fatalf("expected 1 upstream call for a 500, got %d", calls)
	}
	if len(waits) != 0 {
		t.Fatalf("expected no backoff waits, got %v", waits)
	}
}

func TestDoWithRetryTransportErrorRetriedThenReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // every request now fails at the transport level

	var waits []time.Duration
	_, err := doWithRetry(context.Background(), http.DefaultClient, url, http.Header{}, []byte("{}"), 3, recordingSleep(&waits))
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if len(waits) != 2 {
		t.Fatalf("expected 2 backoff waits before giving up, got %v", waits)
	}
}

func TestDoWithRetryCancelledContextAbortsBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sleep := func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := doWithRetry(ctx, srv.Client(), srv.URL, http.Header{}, []byte("{}"), 3, sleep)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBackoffDelayDoubles(t *testing.T) {
	if d := backoffDelay(0); d != 1*time.Second {
		t.Fatalf("attempt 0: expected 1s, got %v", d)
	}
	if d := backoffDelay(1); d != 2*time.Second {
		t.Fatalf("attempt 1: expected 2s, got %v", d)
	}
	if d := backoffDelay(2); d != 4*time.Second {
		t.Fatalf("attempt 2: expected 4s, got %v", d)
	}
}
