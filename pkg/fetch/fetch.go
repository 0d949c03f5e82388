// Package fetch retrieves remote sources through an explicit, injectable
// cache keyed by URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultUserAgent = "verbdrill-builder/1.0"
	// 32 MB covers the larger dictionary archives.
	defaultMaxBodySize = 32 * 1024 * 1024
)

// FetchError reports a non-success HTTP status. It is never retried here.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

// Fetcher downloads URLs, persisting each body in Cache on first retrieval.
type Fetcher struct {
	Client      *http.Client
	Cache       Cache
	UserAgent   string
	MaxBodySize int64
	Logger      *slog.Logger
}

// NewFetcher returns a Fetcher with a 30s client timeout.
func NewFetcher(cache Cache, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		Client:      &http.Client{Timeout: 30 * time.Second},
		Cache:       cache,
		UserAgent:   defaultUserAgent,
		MaxBodySize: defaultMaxBodySize,
		Logger:      logger.With("component", "fetch"),
	}
}

// Fetch returns the body for rawURL. A cached body is returned without
// touching the network. file:// URLs are read from disk and not cached.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if path, ok := localPath(rawURL); ok {
		return os.ReadFile(path)
	}

	if f.Cache != nil {
		body, ok, err := f.Cache.Get(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("cache lookup %s: %w", rawURL, err)
		}
		if ok {
			f.Logger.DebugContext(ctx, "cache hit", slog.String("url", rawURL))
			return body, nil
		}
	}

	body, err := f.download(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.Cache != nil {
		if err := f.Cache.Put(ctx, rawURL, body); err != nil {
			return nil, fmt.Errorf("cache store %s: %w", rawURL, err)
		}
	}
	return body, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	f.Logger.InfoContext(ctx, "downloading", slog.String("url", rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ca,en;q=0.8")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	limit := f.bodyLimit()
	if resp.ContentLength > limit {
		return nil, fmt.Errorf("fetch %s: content-length %d exceeds limit of %d bytes", rawURL, resp.ContentLength, limit)
	}

	// Read one byte past the limit so a truncated body can be told apart.
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", rawURL, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("fetch %s: body exceeded maximum size of %d bytes", rawURL, limit)
	}
	return body, nil
}

// bodyLimit caps both downloads and decompressed archive members.
func (f *Fetcher) bodyLimit() int64 {
	if f.MaxBodySize <= 0 {
		return defaultMaxBodySize
	}
	return f.MaxBodySize
}

func localPath(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, "file://") {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	return u.Path, true
}
