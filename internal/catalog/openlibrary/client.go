// Package openlibrary is a client for the public Open Library catalog.
// It needs no credentials and serves as the fallback recommendation source.
package openlibrary

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ohmyreads/ohmyreads-server/internal/ratelimit"
)

const (
	// DefaultBaseURL is the public API host.
	DefaultBaseURL = "https://openlibrary.org"
	// DefaultCoversURL is the public cover image host.
	DefaultCoversURL = "https://covers.openlibrary.org"

	defaultRPS     = 5.0
	defaultBurst   = 10
	defaultTimeout = 30 * time.Second

	searchLimit  = 12
	subjectLimit = 8

	userAgent = "OhMyReads/1.0 (+https://ohmyreads.app)"
)

// Options configures a Client. Zero values take defaults.
type Options struct {
	BaseURL        string
	CoversURL      string
	RequestsPerSec float64
	HTTPClient     *http.Client
}

// Client is a rate-limited Open Library API client.
type Client struct {
	http      *http.Client
	limiter   *ratelimit.KeyedRateLimiter
	baseURL   string
	coversURL string
	logger    *slog.Logger
}

// New creates a new Open Library client.
func New(opts Options, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.CoversURL == "" {
		opts.CoversURL = DefaultCoversURL
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = defaultRPS
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		http:      opts.HTTPClient,
		limiter:   ratelimit.New(opts.RequestsPerSec, defaultBurst),
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		coversURL: strings.TrimRight(opts.CoversURL, "/"),
		logger:    logger,
	}
}

// Name identifies the provider in logs and source badges.
func (c *Client) Name() string {
	return "Open Library"
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Ping checks that the catalog answers. Used by health checks.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, "/search.json", url.Values{"q": {"the"}, "limit": {"1"}, "fields": {"key"}})
	return err
}

// doRequest executes a GET against the API with rate limiting.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, c.baseURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("open library request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}
