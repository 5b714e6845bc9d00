package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/util"
)

const (
	fetchAttempts  = 3
	fetchBaseDelay = 500 * time.Millisecond
	maxRedirects   = 3
)

// fetchSleepFunc is replaced in tests
var fetchSleepFunc = time.Sleep

// Fetcher downloads submissions published at a URL, such as a filing exported
// from an e-court portal, and loads them with the matching adapter
type Fetcher struct {
	httpClient *http.Client
	registry   *Registry
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a fetcher using the timeout, proxies and limits in cfg
func NewFetcher(cfg model.HTTPConfig, registry *Registry) *Fetcher {
	client := util.NewHTTPClient(cfg)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 10_000_000
	}
	if registry == nil {
		registry = NewRegistry()
	}

	return &Fetcher{
		httpClient: client,
		registry:   registry,
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
	}
}

// IsURL reports whether s looks like an http(s) URL rather than a file path
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads rawURL once and loads it as a Document
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL
	name := documentName(finalURL)
	adapter := f.registry.FindAdapter(finalURL.Path, resp.Header.Get("Content-Type"))

	doc, err := adapter.Load(bytes.NewReader(body), name)
	if err != nil {
		return nil, fmt.Errorf("load %s with %s adapter: %w", finalURL, adapter.Name(), err)
	}
	return doc, nil
}

// FetchWithRetry retries transient failures (network errors, 429 and 5xx)
// with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*Document, error) {
	var lastErr error
	delay := fetchBaseDelay

	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		doc, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		if !transient(err) || attempt == fetchAttempts || ctx.Err() != nil {
			break
		}
		fetchSleepFunc(delay)
		delay *= 2
	}

	return nil, lastErr
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, http.StatusText(e.Code))
}

func transient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// documentName is the last path segment, or the host for a bare URL
func documentName(u *url.URL) string {
	p := strings.Trim(u.Path, "/")
	if p == "" {
		return u.Host
	}
	return path.Base(p)
}
