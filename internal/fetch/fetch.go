package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jagiraud/mealplanner/internal/config"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.Status, e.URL)
}

// Fetcher performs GET requests with fixed headers and a minimum delay
// between consecutive requests. The delay gate is process-wide for a given
// Fetcher: every call site in a run shares one instance, so outbound traffic
// to all targets is serialized on a single clock. Construct a fresh Fetcher
// per test to keep runs isolated.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	acceptLanguage string
	minDelay       time.Duration

	mu        sync.Mutex
	lastFetch time.Time
}

func New(cfg config.FetcherConfig) *Fetcher {
	return &Fetcher{
		client:         &http.Client{Timeout: cfg.Timeout()},
		userAgent:      cfg.UserAgent,
		acceptLanguage: cfg.AcceptLanguage,
		minDelay:       cfg.MinDelay(),
	}
}

// Fetch GETs the URL and returns the response body. It blocks until the
// minimum inter-request delay has elapsed since the previous call. The clock
// advances before the response is evaluated, so failed requests throttle the
// next one just like successful ones.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if f.acceptLanguage != "" {
		req.Header.Set("Accept-Language", f.acceptLanguage)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, URL: url}
	}

	return io.ReadAll(resp.Body)
}

func (f *Fetcher) wait(ctx context.Context) error {
	f.mu.Lock()
	elapsed := time.Since(f.lastFetch)
	var sleep time.Duration
	if !f.lastFetch.IsZero() && elapsed < f.minDelay {
		sleep = f.minDelay - elapsed
	}
	f.lastFetch = time.Now().Add(sleep)
	f.mu.Unlock()

	if sleep <= 0 {
		return nil
	}
	select {
	case <-time.After(sleep):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
