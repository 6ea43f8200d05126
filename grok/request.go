package grok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ResolveURL returns endpoint unchanged when it is already absolute, and
// joins it onto the base URL otherwise.
func (c *Client) ResolveURL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// NewRequest builds the outbound request for endpoint. body is JSON encoded
// unless it is nil or the method is GET. Entries in headers replace the
// defaults of the same name.
func (c *Client) NewRequest(ctx context.Context, method, endpoint string, body any, headers http.Header) (*http.Request, error) {
	if c.apiKey == "" {
		return nil, &ConfigError{Err: ErrMissingCredential}
	}
	if method == "" {
		method = http.MethodGet
	}

	var reader io.Reader
	if body != nil && method != http.MethodGet {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body for %s: %w", endpoint, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.ResolveURL(endpoint), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", endpoint, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en-US")
	for name, values := range headers {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	return req, nil
}
