// Package site provides the HTTP client for fetching marketplace
// category pages, abstracted behind an interface for testability.
package site

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	domain "github.com/mfinch/furniture-watch/pkg/types"
)

const defaultBaseURL = "https://communityfurniture.org"

// Client defines the interface for fetching category pages. BaseURL is
// part of the contract because listing URLs are built relative to it.
type Client interface {
	FetchCategory(ctx context.Context, category domain.Category) (*goquery.Document, error)
	BaseURL() string
}

// HTTPClient implements Client over plain HTTP GET requests.
type HTTPClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// Option configures the HTTPClient.
type Option func(*HTTPClient)

// WithBaseURL overrides the default site base URL.
func WithBaseURL(u string) Option {
	return func(c *HTTPClient) {
		c.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a limiter that paces category fetches. The
// target is a small site; every FetchCategory call waits on it first.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *HTTPClient) {
		c.limiter = l
	}
}

// NewHTTPClient creates a category page fetcher.
func NewHTTPClient(opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured site base URL. Extraction needs it to
// build absolute listing URLs.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// FetchCategory GETs {base_url}/{category} and parses the body into a
// navigable document. Any network error or non-2xx status is returned to
// the caller; the orchestrator decides whether to continue with other
// categories.
func (c *HTTPClient) FetchCategory(ctx context.Context, category domain.Category) (*goquery.Document, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	u := c.baseURL + "/" + string(category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", u, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", u, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", u, err)
	}

	return doc, nil
}
