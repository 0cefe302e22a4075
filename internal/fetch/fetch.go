// Package fetch performs the HTTP requests for a crawl.
//
// The crawl engine only needs status, headers, and (for internal pages) the
// body, so the client flattens responses into a small Response struct. A
// headers-only mode covers external URLs, where the body is fetched but
// never read past the response headers.
package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default client settings. The timeout is deliberately generous: a single
// slow host should not fail, but a hung request must not stall the crawl
// forever either.
const (
	// DefaultTimeout bounds each individual request.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies linkpatrol in HTTP requests so operators
	// can spot scanner traffic in their logs.
	DefaultUserAgent = "linkpatrol/1.0 (+https://github.com/nao1215/linkpatrol)"

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB is plenty for HTML while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// Response is the flattened outcome of a single fetch.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Headers contains the response headers with multi-valued headers
	// joined by ", ".
	Headers map[string]string

	// Body is the response body, up to the configured size limit.
	// Nil for headers-only fetches.
	Body []byte
}

// Client fetches URLs for the crawl engine.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	maxBodySize int64
	headers     map[string]string
	cookie      string

	// credentialHost scopes the cookie and extra headers to one
	// host[:port]. Empty means no scoping.
	credentialHost string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithHeaders sets extra headers to send with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithCookie sets a Cookie header to send with every request.
// Format: "name=value" or "name1=value1; name2=value2".
func WithCookie(cookie string) Option {
	return func(c *Client) {
		c.cookie = cookie
	}
}

// WithCredentialHost restricts the cookie and extra headers to requests
// whose URL host matches. A crawl probes foreign hosts, and session
// credentials for the crawled site must never travel with those probes.
func WithCredentialHost(host string) Option {
	return func(c *Client) {
		c.credentialHost = host
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// Useful for tests and for callers that need custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a fetch client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch performs a GET and reads the body up to the size limit.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeader(resp.Header),
		Body:       body,
	}, nil
}

// FetchHeaders performs a GET but discards the body after the response
// headers arrive. External URLs only need reachability, status, and headers,
// so skipping the body read keeps probing cheap.
func (c *Client) FetchHeaders(ctx context.Context, url string) (*Response, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeader(resp.Header),
	}, nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if c.credentialAllowed(req.URL.Host) {
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
		if c.cookie != "" {
			req.Header.Set("Cookie", c.cookie)
		}
	}

	return c.httpClient.Do(req)
}

// credentialAllowed reports whether the cookie and extra headers may be
// attached to a request for the given host.
func (c *Client) credentialAllowed(host string) bool {
	return c.credentialHost == "" || strings.EqualFold(c.credentialHost, host)
}

// flattenHeader converts an http.Header into the flat string map stored in
// result records.
func flattenHeader(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for k, values := range h {
		flat[k] = strings.Join(values, ", ")
	}
	return flat
}
