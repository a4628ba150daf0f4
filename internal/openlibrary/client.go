// Package openlibrary provides a client for the OpenLibrary metadata API:
// work search with result deduplication, ISBN lookup, and the work
// resource endpoints.
package openlibrary

import (
	"net/http"
	"strings"
	"time"

	"github.com/mathwizard1232/openlibrary-client-2/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://openlibrary.org"
	defaultMaxAttempts   = 3
	defaultRatePerSecond = 1 // OpenLibrary asks for at most 1 req/sec from bots
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is an OpenLibrary API client. Transport concerns (timeouts,
// rate limiting, retry with backoff) live here; the search and work
// operations above it are pure transformations of fetched JSON.
type Client struct {
	baseURL       string
	httpClient    HTTPDoer
	rateLimiter   *ratelimit.Limiter
	retryAttempts int
}

// NewClient creates a new OpenLibrary API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		rateLimiter:   ratelimit.New("OpenLibrary", defaultRatePerSecond),
		retryAttempts: defaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the base URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(client *Client) {
		if doer != nil {
			client.httpClient = doer
		}
	}
}

// WithBaseURL sets a custom base URL for the OpenLibrary API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRetryAttempts sets the number of attempts for failed requests.
func WithRetryAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = attempts
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}
