// file: internal/booksapi/client.go
// version: 1.0.0
// guid: 4c3f495b-c9bb-4829-8e96-ed2293e8a7a3

package booksapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/jdfalk/library-proto/internal/fetch"
)

// DefaultEndpoint is the Google Books volume search endpoint.
const DefaultEndpoint = "https://www.googleapis.com/books/v1/volumes"

// Client queries the Google Books volume search endpoint.
// No API key is required for basic searches (free tier, ~1000 req/day).
type Client struct {
	httpClient *http.Client
	endpoint   *url.URL
	limiter    *rate.Limiter
	maxBytes   int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRequestsPerMinute throttles outbound queries. Zero or less disables it.
func WithRequestsPerMinute(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(float64(n)/60.0), n)
	}
}

// WithMaxBytes caps the response body size.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		c.maxBytes = n
	}
}

// NewClient creates a client for endpoint. An endpoint that does not parse as
// an absolute http(s) URL is a configuration error.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid search endpoint %q: %w", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid search endpoint %q: must be an absolute http(s) URL", endpoint)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   u,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		maxBytes:   fetch.DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the display name for this metadata source.
func (c *Client) Name() string {
	return "Google Books"
}

// QueryURL percent-encodes text into the endpoint's q parameter.
func (c *Client) QueryURL(text string) string {
	u := *c.endpoint
	q := u.Query()
	q.Set("q", text)
	u.RawQuery = q.Encode()
	return u.String()
}

// Fetch issues the volume query and returns the raw payload.
func (c *Client) Fetch(ctx context.Context, text string) ([]byte, error) {
	searchURL := c.QueryURL(text)

	if err := c.limiter.Wait(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("waiting to query Google Books: %w", fetch.ErrCanceled)
		}
		return nil, &fetch.Error{Kind: fetch.KindTransport, URL: searchURL, Cause: err}
	}

	resp, err := fetch.Get(ctx, c.httpClient, searchURL, c.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to search Google Books: %w", err)
	}
	return resp.Body, nil
}

// Search fetches and decodes in one call.
func (c *Client) Search(ctx context.Context, text string) (*SearchResultSet, error) {
	payload, err := c.Fetch(ctx, text)
	if err != nil {
		return nil, err
	}
	return Decode(payload)
}
