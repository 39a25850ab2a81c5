package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	UserAgent    = "conf-events/1.0 (github.com/pfrederiksen/conf-events)"
	Timeout      = 30 * time.Second
	MaxBodyBytes = 10 << 20
)

// Fetcher retrieves the raw HTML of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError reports a page that could not be retrieved: a transport
// failure, a cancelled context or a non-2xx response
type FetchError struct {
	URL   string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// HTTPFetcher fetches pages with a single GET request and no retries
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher around client. A nil client gets a fresh
// one with the package Timeout, an empty userAgent falls back to UserAgent.
func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: Timeout}
	}
	if userAgent == "" {
		userAgent = UserAgent
	}
	return &HTTPFetcher{
		client:    client,
		userAgent: userAgent,
	}
}

// Fetch returns the body of url decoded to UTF-8. The charset comes from the
// Content-Type header, then from a <meta> tag. Every failure is a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Cause: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, Cause: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, MaxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &FetchError{URL: url, Cause: fmt.Errorf("decoding body: %w", err)}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", &FetchError{URL: url, Cause: fmt.Errorf("reading body: %w", err)}
	}

	return string(body), nil
}
