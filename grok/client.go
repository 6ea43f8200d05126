// Package grok talks to the Grok completion API. It builds authenticated
// requests, performs them, and classifies failures into *Error values.
package grok

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// Version is reported in the User-Agent header and the MCP server info.
const Version = "1.0.0"

// DefaultBaseURL is used when no base URL override is configured.
const DefaultBaseURL = "https://api.x.ai/v1"

// Config is built once at process start and handed to NewClient.
type Config struct {
	APIKey  string
	BaseURL string

	// Timeout bounds a whole upstream call. Zero leaves it to the
	// underlying network stack.
	Timeout time.Duration
}

// Endpoint describes one upstream operation.
type Endpoint struct {
	Method string
	Path   string
}

// Client is safe for concurrent use; it holds no per-call state.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a Client from cfg. A missing API key is not an error
// here; every call made without one fails with ErrMissingCredential.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  UserAgent(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// WithHTTPClient replaces the underlying HTTP client. Mainly used for testing.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the normalised base URL requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// UserAgent identifies the product, its version and the platform.
func UserAgent() string {
	return fmt.Sprintf("grok-mcp/v%s (%s; %s) %s", Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
}
