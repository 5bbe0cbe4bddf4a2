package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jagiraud/mealplanner/internal/config"
)

func testConfig(delayMs int) config.FetcherConfig {
	return config.FetcherConfig{
		UserAgent:      "TestBot/1.0",
		AcceptLanguage: "sv-SE",
		MinDelayMs:     delayMs,
		TimeoutMs:      5000,
	}
}

func TestFetchSendsHeaders(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := New(testConfig(0))
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(body) != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", string(body))
	}
	if gotUA != "TestBot/1.0" {
		t.Fatalf("expected User-Agent TestBot/1.0, got %q", gotUA)
	}
	if gotLang != "sv-SE" {
		t.Fatalf("expected Accept-Language sv-SE, got %q", gotLang)
	}
}

func TestFetchDelaysBetweenRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	const delayMs = 100
	f := New(testConfig(delayMs))
	ctx := context.Background()

	if _, err := f.Fetch(ctx, srv.URL); err != nil {
		t.Fatalf("first Fetch returned error: %v", err)
	}
	start := time.Now()
	if _, err := f.Fetch(ctx, srv.URL); err != nil {
		t.Fatalf("second Fetch returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < delayMs*time.Millisecond/2 {
		t.Fatalf("expected second fetch to be delayed, took %v", elapsed)
	}
}

func TestFetchThrottlesAfterFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	const delayMs = 100
	f := New(testConfig(delayMs))
	ctx := context.Background()

	if _, err := f.Fetch(ctx, srv.URL); err == nil {
		t.Fatal("expected error for 500 response")
	}
	// The failed request must still advance the clock for the next one.
	start := time.Now()
	f.Fetch(ctx, srv.URL)
	if elapsed := time.Since(start); elapsed < delayMs*time.Millisecond/2 {
		t.Fatalf("expected delay after failed fetch, took %v", elapsed)
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(testConfig(0))
	_, err := f.Fetch(context.Background(), srv.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", statusErr.Status)
	}
}

func TestFetchContextCancelDuringWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := New(testConfig(10000))
	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("first Fetch returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := f.Fetch(ctx, srv.URL); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
}
