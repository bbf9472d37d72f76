// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultAPIBaseURL is the public GitHub REST API root.
const DefaultAPIBaseURL = "https://api.github.com/"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken string
	APIBaseURL  string
	HTTPTimeout time.Duration
}

// AuthHeaders builds the authenticated request headers the GitHub client
// forwards unchanged on every call, both REST and GraphQL.
func (c *Config) AuthHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.GitHubToken,
		"Accept":        "application/vnd.github.v3+json",
	}
}

// Load reads configuration from environment variables and returns a validated
// Config. PRLINKED_GITHUB_TOKEN is required. Optional variables with defaults:
// PRLINKED_API_URL (https://api.github.com/, override for GitHub Enterprise)
// and PRLINKED_HTTP_TIMEOUT (30s).
func Load() (*Config, error) {
	token := os.Getenv("PRLINKED_GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("PRLINKED_GITHUB_TOKEN must be set")
	}

	apiBaseURL := DefaultAPIBaseURL
	if v, ok := os.LookupEnv("PRLINKED_API_URL"); ok && v != "" {
		// go-github requires a trailing slash on the base URL.
		if !strings.HasSuffix(v, "/") {
			v += "/"
		}
		apiBaseURL = v
	}

	httpTimeout := 30 * time.Second
	if v, ok := os.LookupEnv("PRLINKED_HTTP_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PRLINKED_HTTP_TIMEOUT has invalid duration %q: %w", v, err)
		}
		httpTimeout = parsed
	}

	return &Config{
		GitHubToken: token,
		APIBaseURL:  apiBaseURL,
		HTTPTimeout: httpTimeout,
	}, nil
}
