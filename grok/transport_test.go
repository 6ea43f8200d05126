package grok

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_JSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"object":"list","data":[{"id":"grok-3","object":"model","created":1700000000}]}`))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL + "/v1")
	resp, err := c.Call(context.Background(), Endpoint{Method: http.MethodGet, Path: "models"}, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	body, ok := resp.Body.(map[string]any)
	require.True(t, ok, "expected decoded JSON object, got %T", resp.Body)
	assert.Equal(t, "list", body["object"])

	model := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, json.Number("1700000000"), model["created"])
}

func TestDo_TextBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("hello"))
	}))
	defer ts.Close()

	resp, err := newTestClient(ts.URL).Call(context.Background(), Endpoint{Method: http.MethodGet, Path: "ping"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Body)
}

func TestDo_MalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Call(context.Background(), Endpoint{Method: http.MethodGet, Path: "models"}, nil)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindGeneric, gerr.Kind)
	assert.Equal(t, http.StatusOK, gerr.Status)
	assert.Contains(t, gerr.Message, "failed to parse response")
}

func TestDo_ClassifiesErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down"},"reset_at":"2030-01-01T00:00:00Z"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Call(context.Background(), Endpoint{Method: http.MethodPost, Path: "chat/completions"}, map[string]any{"model": "m"})

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindRateLimit, gerr.Kind)
	assert.Equal(t, "slow down", gerr.Message)
	assert.Equal(t, 2030, gerr.ResetAt.Year())
}

func TestDo_ClassifiesTextErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Call(context.Background(), Endpoint{Method: http.MethodGet, Path: "models"}, nil)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindServer, gerr.Kind)
	assert.Equal(t, "Server error", gerr.Message)
	assert.Equal(t, "<html>bad gateway</html>", gerr.Body)
}

func TestDo_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := newTestClient(url).Call(context.Background(), Endpoint{Method: http.MethodGet, Path: "models"}, nil)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindGeneric, gerr.Kind)
	assert.Equal(t, 0, gerr.Status)
	assert.Contains(t, gerr.Message, "Failed to make request to "+url+"/models")
	assert.NotNil(t, errors.Unwrap(gerr))
}

func TestCall_MissingCredentialSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL})
	_, err := c.Call(context.Background(), Endpoint{Method: http.MethodGet, Path: "models"}, nil)

	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, int32(0), hits.Load())
}
