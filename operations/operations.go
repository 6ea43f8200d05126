// Package operations pairs each exposed tool with its argument schema, its
// response schema and its upstream endpoint. Every tool runs through the
// same Invoke pipeline; the differences between tools live in the embedded
// schema documents only.
package operations

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"

	"github.com/BrewMyTech/grok-mcp/grok"
	"github.com/BrewMyTech/grok-mcp/validate"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Tool names exposed to agent hosts.
const (
	ListModels           = "list_models"
	GetModel             = "get_model"
	CreateChatCompletion = "create_chat_completion"
	CreateCompletion     = "create_completion"
	CreateEmbeddings     = "create_embeddings"
)

// Caller performs one upstream call. *grok.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, ep grok.Endpoint, body any) (*grok.Response, error)
}

// Operation is immutable after construction and shared by every call.
type Operation struct {
	Name        string
	Description string
	Endpoint    grok.Endpoint
	Args        *validate.Schema
	Response    *validate.Schema
}

var pathParam = regexp.MustCompile(`\{([a-z_]+)\}`)

// Invoke validates raw, calls the upstream endpoint and validates what comes
// back. Argument validation failures never reach the network.
func (op *Operation) Invoke(ctx context.Context, caller Caller, raw json.RawMessage) (json.RawMessage, error) {
	args, err := op.Args.Arguments(raw)
	if err != nil {
		return nil, err
	}

	path, err := expandPath(op.Endpoint.Path, args)
	if err != nil {
		return nil, err
	}

	var body any
	if op.Endpoint.Method != http.MethodGet {
		body = args
	}

	resp, err := caller.Call(ctx, grok.Endpoint{Method: op.Endpoint.Method, Path: path}, body)
	if err != nil {
		return nil, err
	}

	if err := op.Response.Response(resp.Body); err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Raw), nil
}

// InvokeAs runs op and decodes the validated payload into T.
func InvokeAs[T any](ctx context.Context, op *Operation, caller Caller, raw json.RawMessage) (*T, error) {
	payload, err := op.Invoke(ctx, caller, raw)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decoding %s result: %w", op.Name, err)
	}
	return &out, nil
}

// expandPath fills {name} placeholders from args. Filled values are removed
// from args so they are not sent twice.
func expandPath(tmpl string, args map[string]any) (string, error) {
	var missing string
	path := pathParam.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := args[name]
		if !ok {
			missing = name
			return m
		}
		delete(args, name)
		return url.PathEscape(fmt.Sprint(v))
	})
	if missing != "" {
		return "", grok.NewValidationError(grok.OriginArguments,
			fmt.Sprintf("Missing path parameter '%s'", missing),
			[]grok.Violation{{Path: missing, Reason: missing + " is required"}})
	}
	return path, nil
}

func mustSchema(name, file string) *validate.Schema {
	doc, err := schemaFS.ReadFile("schemas/" + file)
	if err != nil {
		panic(fmt.Errorf("reading schema %s: %w", file, err))
	}
	return validate.MustCompile(name, doc)
}

var all = []*Operation{
	{
		Name:        ListModels,
		Description: "List all models available for use with the Grok API",
		Endpoint:    grok.Endpoint{Method: http.MethodGet, Path: "models"},
		Args:        mustSchema(ListModels, "list_models.args.json"),
		Response:    mustSchema(ListModels, "list_models.response.json"),
	},
	{
		Name:        GetModel,
		Description: "Get details about a specific model",
		Endpoint:    grok.Endpoint{Method: http.MethodGet, Path: "models/{model_id}"},
		Args:        mustSchema(GetModel, "get_model.args.json"),
		Response:    mustSchema(GetModel, "model.json"),
	},
	{
		Name:        CreateChatCompletion,
		Description: "Create a chat completion with the Grok API",
		Endpoint:    grok.Endpoint{Method: http.MethodPost, Path: "chat/completions"},
		Args:        mustSchema(CreateChatCompletion, "chat_completion.args.json"),
		Response:    mustSchema(CreateChatCompletion, "chat_completion.response.json"),
	},
	{
		Name:        CreateCompletion,
		Description: "Create a text completion with the Grok API",
		Endpoint:    grok.Endpoint{Method: http.MethodPost, Path: "completions"},
		Args:        mustSchema(CreateCompletion, "completion.args.json"),
		Response:    mustSchema(CreateCompletion, "completion.response.json"),
	},
	{
		Name:        CreateEmbeddings,
		Description: "Create embeddings for text with the Grok API",
		Endpoint:    grok.Endpoint{Method: http.MethodPost, Path: "embeddings"},
		Args:        mustSchema(CreateEmbeddings, "embeddings.args.json"),
		Response:    mustSchema(CreateEmbeddings, "embeddings.response.json"),
	},
}

// All returns the five operations sorted by name.
func All() []*Operation {
	ops := make([]*Operation, len(all))
	copy(ops, all)
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}
