package grok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BrewMyTech/grok-mcp/metrics"
)

// Response is the parsed upstream reply. Body holds decoded JSON for JSON
// content types and the raw text otherwise.
type Response struct {
	Status      int
	ContentType string
	Body        any
	Raw         []byte
}

// Do performs req and parses the reply. Non-2xx statuses are returned as a
// classified *Error; network and parse failures as a KindGeneric *Error.
func (c *Client) Do(req *http.Request) (*Response, error) {
	endpoint := req.URL.String()
	start := time.Now()

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, NewGenericError(0, fmt.Sprintf("Failed to make request to %s: %s", endpoint, err.Error()), nil, err)
	}
	defer httpResp.Body.Close()

	metrics.UpstreamLatency.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(httpResp.StatusCode)).Inc()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewGenericError(httpResp.StatusCode, fmt.Sprintf("Failed to make request to %s: %s", endpoint, err.Error()), nil, err)
	}

	resp := &Response{
		Status:      httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Raw:         raw,
	}

	if strings.Contains(resp.ContentType, "application/json") {
		body, err := decodeJSON(raw)
		if err != nil {
			return nil, NewGenericError(resp.Status, fmt.Sprintf("failed to parse response from %s: %s", endpoint, err.Error()), string(raw), err)
		}
		resp.Body = body
	} else {
		resp.Body = string(raw)
	}

	if resp.Status < 200 || resp.Status > 299 {
		return nil, Classify(resp.Status, resp.Body)
	}
	return resp, nil
}

// Call builds the request for ep and performs it.
func (c *Client) Call(ctx context.Context, ep Endpoint, body any) (*Response, error) {
	req, err := c.NewRequest(ctx, ep.Method, ep.Path, body, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level JSON value")
	}
	return v, nil
}
