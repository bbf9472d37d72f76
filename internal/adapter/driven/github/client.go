// Package github implements the PRFinder port against the GitHub API,
// using the go-github library for REST and a hand-rolled GraphQL call.
package github

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
)

// defaultTimeout bounds each outbound call as a safety net alongside
// context cancellation.
const defaultTimeout = 30 * time.Second

// Client wraps the GitHub REST and GraphQL endpoints. It is stateless
// beyond its transport configuration and safe for concurrent use.
type Client struct {
	gh         *gh.Client
	httpClient *http.Client
	graphqlURL string // "https://api.github.com/graphql" in production; derived from baseURL in tests.
}

// headerTransport applies a fixed set of headers to every outgoing request.
// The header map comes from the credential collaborator and is forwarded
// unchanged on both the REST and GraphQL calls.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	for name, value := range t.headers {
		cloned.Header.Set(name, value)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(cloned)
}

// NewClient creates a GitHub API client for the given base URL (the public
// API or a GitHub Enterprise root) with the following transport stack:
//  1. header injection (authenticated request headers, forwarded as-is)
//  2. httpcache (ETag-based conditional request caching)
//  3. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//
// A non-positive timeout falls back to defaultTimeout.
func NewClient(headers map[string]string, baseURL string, timeout time.Duration) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = &headerTransport{headers: headers}
	httpClient := github_ratelimit.NewClient(cacheTransport)
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient.Timeout = timeout

	return newClientFromHTTP(httpClient, baseURL)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client, for
// httptest servers. The given client's transport is wrapped so the headers
// are still applied.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, headers map[string]string) (*Client, error) {
	wrapped := *httpClient
	wrapped.Transport = &headerTransport{base: httpClient.Transport, headers: headers}

	return newClientFromHTTP(&wrapped, baseURL)
}

func newClientFromHTTP(httpClient *http.Client, baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	client := gh.NewClient(httpClient)
	client.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers and Enterprise
	// installations resolve to their own GraphQL endpoint.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:         client,
		httpClient: httpClient,
		graphqlURL: graphqlU.String(),
	}, nil
}

// logRateLimit logs the GitHub API rate limit status after each REST call.
func logRateLimit(resp *gh.Response, endpoint string, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
