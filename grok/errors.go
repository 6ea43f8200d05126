package grok

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind is the discriminant of a classified upstream failure.
type Kind int

const (
	KindGeneric Kind = iota
	KindValidation
	KindNotFound
	KindAuthentication
	KindPermission
	KindRateLimit
	KindBadRequest
	KindServer
)

var kindNames = map[Kind]string{
	KindGeneric:        "generic",
	KindValidation:     "validation",
	KindNotFound:       "not_found",
	KindAuthentication: "authentication",
	KindPermission:     "permission",
	KindRateLimit:      "rate_limit",
	KindBadRequest:     "bad_request",
	KindServer:         "server",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Origin tells which side of the pipeline produced a validation failure.
type Origin string

const (
	OriginArguments Origin = "arguments"
	OriginResponse  Origin = "response"
)

// RateLimitFallback is how far in the future ResetAt is placed when the
// upstream omits reset_at or sends one that cannot be parsed.
const RateLimitFallback = time.Hour

// Violation is a single field-level schema failure.
type Violation struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Error is the single domain error type. Exactly one Kind is attached to it;
// the remaining fields are populated depending on that Kind.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Body    any

	// ResetAt is set for KindRateLimit only.
	ResetAt time.Time

	// Origin and Violations are set for KindValidation only.
	Origin     Origin
	Violations []Violation

	cause error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// ErrMissingCredential is returned before any network call when no API key
// has been configured. It is not a domain error and is never retryable.
var ErrMissingCredential = errors.New("GROK_API_KEY environment variable is not set")

// ConfigError wraps a fatal configuration problem detected at call time.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// NewValidationError builds a KindValidation error.
func NewValidationError(origin Origin, message string, violations []Violation) *Error {
	return &Error{
		Kind:       KindValidation,
		Message:    message,
		Origin:     origin,
		Violations: violations,
	}
}

// NewGenericError builds a KindGeneric error for failures that never
// produced a classifiable HTTP status.
func NewGenericError(status int, message string, body any, cause error) *Error {
	return &Error{
		Kind:    KindGeneric,
		Message: message,
		Status:  status,
		Body:    body,
		cause:   cause,
	}
}

// Classify maps a non-2xx status and its parsed body to exactly one Kind.
// It never fails: missing or malformed fields fall back to defaults.
func Classify(status int, body any) *Error {
	return classifyAt(status, body, time.Now())
}

func classifyAt(status int, body any, now time.Time) *Error {
	msg := extractMessage(body)
	e := &Error{Status: status, Body: body, Message: msg}

	switch status {
	case 400:
		e.Kind = KindBadRequest
		e.Message = orDefault(msg, "Bad request")
	case 401:
		e.Kind = KindAuthentication
		e.Message = orDefault(msg, "Authentication failed")
	case 403:
		e.Kind = KindPermission
		e.Message = orDefault(msg, "Insufficient permissions")
	case 404:
		e.Kind = KindNotFound
		if msg == "" {
			e.Message = "Resource not found"
		} else {
			e.Message = "Resource not found: " + msg
		}
	case 429:
		e.Kind = KindRateLimit
		e.Message = orDefault(msg, "Rate limit exceeded")
		e.ResetAt = resetAt(body, now)
	case 500, 502, 503, 504:
		e.Kind = KindServer
		e.Message = orDefault(msg, "Server error")
	default:
		e.Kind = KindGeneric
		e.Message = orDefault(msg, fmt.Sprintf("API error: Status %d", status))
	}
	return e
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// extractMessage looks at body.message, then body.error.message, then
// body.error when it is a plain string.
func extractMessage(body any) string {
	obj, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := obj["message"].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	switch nested := obj["error"].(type) {
	case map[string]any:
		if s, ok := nested["message"].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	case string:
		if strings.TrimSpace(nested) != "" {
			return nested
		}
	}
	return ""
}

var resetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

func resetAt(body any, now time.Time) time.Time {
	fallback := now.Add(RateLimitFallback)
	obj, ok := body.(map[string]any)
	if !ok {
		return fallback
	}

	switch v := obj["reset_at"].(type) {
	case string:
		v = strings.TrimSpace(v)
		for _, layout := range resetLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	case float64:
		return time.UnixMilli(int64(v))
	case json.Number:
		if ms, err := v.Int64(); err == nil {
			return time.UnixMilli(ms)
		}
		if f, err := v.Float64(); err == nil {
			return time.UnixMilli(int64(f))
		}
	}
	return fallback
}
