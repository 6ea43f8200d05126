package grok

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_DefaultMessages(t *testing.T) {
	tests := []struct {
		status  int
		kind    Kind
		message string
	}{
		{400, KindBadRequest, "Bad request"},
		{401, KindAuthentication, "Authentication failed"},
		{403, KindPermission, "Insufficient permissions"},
		{404, KindNotFound, "Resource not found"},
		{429, KindRateLimit, "Rate limit exceeded"},
		{500, KindServer, "Server error"},
		{502, KindServer, "Server error"},
		{503, KindServer, "Server error"},
		{504, KindServer, "Server error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := Classify(tt.status, map[string]any{})
			require.NotNil(t, err)
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.status, err.Status)
		})
	}
}

func TestClassify_UnmappedStatus(t *testing.T) {
	body := map[string]any{}
	err := Classify(599, body)

	assert.Equal(t, KindGeneric, err.Kind)
	assert.Equal(t, 599, err.Status)
	assert.Equal(t, body, err.Body)
	assert.Contains(t, err.Message, "599")
	assert.Equal(t, "API error: Status 599", err.Message)
}

func TestClassify_MessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body any
		want string
	}{
		{"top level", map[string]any{"message": "bad model"}, "bad model"},
		{"nested error", map[string]any{"error": map[string]any{"message": "nested"}}, "nested"},
		{"top level wins", map[string]any{"message": "top", "error": map[string]any{"message": "nested"}}, "top"},
		{"error string", map[string]any{"error": "plain"}, "plain"},
		{"empty message falls through", map[string]any{"message": "", "error": map[string]any{"message": "nested"}}, "nested"},
		{"raw text body", "upstream exploded", "Bad request"},
		{"nil body", nil, "Bad request"},
		{"array body", []any{"x"}, "Bad request"},
		{"wrong type", map[string]any{"message": 42}, "Bad request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(400, tt.body)
			assert.Equal(t, KindBadRequest, err.Kind)
			assert.Equal(t, tt.want, err.Message)
		})
	}
}

func TestClassify_NotFoundPrefixesMessage(t *testing.T) {
	err := Classify(404, map[string]any{"error": map[string]any{"message": "model grok-9 not found"}})
	assert.Equal(t, KindNotFound, err.Kind)
	assert.Equal(t, "Resource not found: model grok-9 not found", err.Message)
}

func TestClassify_RateLimitReset(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid timestamp", func(t *testing.T) {
		want := time.Date(2025, 3, 1, 12, 30, 15, 0, time.UTC)
		err := classifyAt(429, map[string]any{"reset_at": "2025-03-01T12:30:15Z"}, now)
		assert.Equal(t, KindRateLimit, err.Kind)
		assert.True(t, want.Equal(err.ResetAt), "got %s", err.ResetAt)
	})

	t.Run("fractional seconds", func(t *testing.T) {
		want := time.Date(2025, 3, 1, 12, 30, 15, 250_000_000, time.UTC)
		err := classifyAt(429, map[string]any{"reset_at": "2025-03-01T12:30:15.250Z"}, now)
		assert.True(t, want.Equal(err.ResetAt), "got %s", err.ResetAt)
	})

	t.Run("epoch millis", func(t *testing.T) {
		want := time.UnixMilli(1740832215000)
		err := classifyAt(429, map[string]any{"reset_at": json.Number("1740832215000")}, now)
		assert.True(t, want.Equal(err.ResetAt), "got %s", err.ResetAt)
	})

	t.Run("epoch millis in exponent or fractional form", func(t *testing.T) {
		want := time.UnixMilli(1700000000000)
		for _, raw := range []string{`{"reset_at":1.7e12}`, `{"reset_at":1700000000000.5}`} {
			dec := json.NewDecoder(strings.NewReader(raw))
			dec.UseNumber()
			var body any
			require.NoError(t, dec.Decode(&body))

			err := classifyAt(429, body, now)
			assert.True(t, want.Equal(err.ResetAt), "%s: got %s", raw, err.ResetAt)
		}
	})

	t.Run("unparseable", func(t *testing.T) {
		err := classifyAt(429, map[string]any{"reset_at": "not-a-date"}, now)
		assert.True(t, now.Add(time.Hour).Equal(err.ResetAt), "got %s", err.ResetAt)
	})

	t.Run("absent", func(t *testing.T) {
		err := classifyAt(429, map[string]any{}, now)
		assert.True(t, now.Add(time.Hour).Equal(err.ResetAt), "got %s", err.ResetAt)
	})

	t.Run("non object body", func(t *testing.T) {
		err := classifyAt(429, "slow down", now)
		assert.True(t, now.Add(time.Hour).Equal(err.ResetAt), "got %s", err.ResetAt)
	})
}

func TestClassify_RateLimitWallClock(t *testing.T) {
	err := Classify(429, map[string]any{"reset_at": "not-a-date"})

	want := time.Now().Add(time.Hour)
	assert.WithinDuration(t, want, err.ResetAt, 5*time.Second)
}

func TestClassify_OnlyRateLimitCarriesReset(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404, 500, 418} {
		err := Classify(status, map[string]any{"reset_at": "2025-03-01T12:30:15Z"})
		assert.True(t, err.ResetAt.IsZero(), "status %d", status)
	}
}

func TestError_AsAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	var err error = NewGenericError(0, "Failed to make request to models: connection refused", nil, cause)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindGeneric, gerr.Kind)
	assert.ErrorIs(t, err, cause)

	cfgErr := error(&ConfigError{Err: ErrMissingCredential})
	assert.ErrorIs(t, cfgErr, ErrMissingCredential)
	assert.False(t, errors.As(cfgErr, &gerr))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "rate_limit", KindRateLimit.String())
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
