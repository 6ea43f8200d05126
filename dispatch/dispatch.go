// Package dispatch routes a tool call by name to its operation and renders
// the outcome as the single text block a tool host displays.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BrewMyTech/grok-mcp/grok"
	"github.com/BrewMyTech/grok-mcp/logger"
	"github.com/BrewMyTech/grok-mcp/metrics"
	"github.com/BrewMyTech/grok-mcp/operations"

	"github.com/google/uuid"
)

// ResetLayout is ISO-8601 in UTC with millisecond precision.
const ResetLayout = "2006-01-02T15:04:05.000Z07:00"

// UnknownToolError is returned for names no operation is registered under.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string { return "unknown tool: " + e.Name }

// Result is what a protocol runtime sends back for one tool call.
type Result struct {
	Text    string
	IsError bool
}

// Dispatcher is read-only after New and safe for concurrent use.
type Dispatcher struct {
	caller operations.Caller
	ops    []*operations.Operation
	byName map[string]*operations.Operation
	log    *logger.Logger
}

// New registers ops. With no ops given every operation is registered.
func New(caller operations.Caller, ops ...*operations.Operation) *Dispatcher {
	if len(ops) == 0 {
		ops = operations.All()
	}
	d := &Dispatcher{
		caller: caller,
		ops:    ops,
		byName: make(map[string]*operations.Operation, len(ops)),
		log:    logger.NewLogger("Dispatcher", uuid.NewString()),
	}
	for _, op := range ops {
		d.byName[op.Name] = op
	}
	return d
}

// Tools lists the registered operations in registration order.
func (d *Dispatcher) Tools() []*operations.Operation {
	out := make([]*operations.Operation, len(d.ops))
	copy(out, d.ops)
	return out
}

// Lookup finds the operation registered as name.
func (d *Dispatcher) Lookup(name string) (*operations.Operation, bool) {
	op, ok := d.byName[name]
	return op, ok
}

// Call runs the named tool. It never returns a Go error: failures are
// rendered into the result text with IsError set.
func (d *Dispatcher) Call(ctx context.Context, name string, args json.RawMessage) Result {
	start := time.Now()

	op, ok := d.byName[name]
	if !ok {
		metrics.ToolCallsTotal.WithLabelValues(name, "unknown_tool").Inc()
		d.log.Warn("unknown tool", "tool", name)
		return Result{Text: Render(&UnknownToolError{Name: name}), IsError: true}
	}

	payload, err := op.Invoke(ctx, d.caller, args)
	metrics.ToolDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := Outcome(err)
		metrics.ToolCallsTotal.WithLabelValues(name, outcome).Inc()
		d.log.Warn("tool call failed", "tool", name, "outcome", outcome, "error", err.Error())
		return Result{Text: Render(err), IsError: true}
	}

	metrics.ToolCallsTotal.WithLabelValues(name, "ok").Inc()
	d.log.Debug("tool call succeeded", "tool", name, "duration", time.Since(start).String())

	text, err := Pretty(payload)
	if err != nil {
		return Result{Text: Render(err), IsError: true}
	}
	return Result{Text: text}
}

// Pretty re-indents a JSON payload with two spaces.
func Pretty(payload json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("formatting result: %w", err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting result: %w", err)
	}
	return string(out), nil
}

// Outcome is the metrics label for err.
func Outcome(err error) string {
	var (
		gerr    *grok.Error
		cfgErr  *grok.ConfigError
		toolErr *UnknownToolError
	)
	switch {
	case errors.As(err, &gerr):
		return gerr.Kind.String()
	case errors.As(err, &cfgErr):
		return "config"
	case errors.As(err, &toolErr):
		return "unknown_tool"
	}
	return "error"
}

// Render turns any failure into one human-readable string prefixed by its
// kind.
func Render(err error) string {
	var gerr *grok.Error
	if errors.As(err, &gerr) {
		return renderDomain(gerr)
	}

	var cfgErr *grok.ConfigError
	if errors.As(err, &cfgErr) {
		return "Configuration Error: " + cfgErr.Error()
	}

	var toolErr *UnknownToolError
	if errors.As(err, &toolErr) {
		return "Unknown tool: " + toolErr.Name
	}
	return err.Error()
}

func renderDomain(e *grok.Error) string {
	switch e.Kind {
	case grok.KindValidation:
		details, err := json.Marshal(e.Violations)
		if err != nil || e.Violations == nil {
			details = []byte("[]")
		}
		return fmt.Sprintf("Validation Error: %s\nDetails: %s", e.Message, details)
	case grok.KindNotFound:
		return "Not Found: " + e.Message
	case grok.KindAuthentication:
		return "Authentication Failed: " + e.Message
	case grok.KindPermission:
		return "Permission Denied: " + e.Message
	case grok.KindRateLimit:
		return fmt.Sprintf("Rate Limit Exceeded: %s\nResets at: %s", e.Message, e.ResetAt.UTC().Format(ResetLayout))
	case grok.KindBadRequest:
		return "Bad Request: " + e.Message
	case grok.KindServer:
		return "Server Error: " + e.Message
	case grok.KindGeneric:
		return "Grok API Error: " + e.Message
	}
	return "Grok API Error: " + e.Message
}
