package mcp

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/BrewMyTech/grok-mcp/codec"
	"github.com/BrewMyTech/grok-mcp/dispatch"
	"github.com/BrewMyTech/grok-mcp/logger"

	"github.com/google/uuid"
)

// NewToolServer registers initialize, ping and the tool methods for d.
func NewToolServer(d *dispatch.Dispatcher, info ServerInfo) *Protocol {
	p := NewProtocol()
	log := logger.NewLogger("MCP", uuid.NewString())

	p.SetRequestHandler(MethodInitialize, func(ctx context.Context, params json.RawMessage) (any, error) {
		var in InitializeParams
		if err := decodeParams(params, &in); err != nil {
			return nil, err
		}
		version := NegotiateVersion(in.ProtocolVersion)
		log.Info("client initialized", "client", in.ClientInfo.Name, "requested", in.ProtocolVersion, "negotiated", version)
		return InitializeResult{
			ProtocolVersion: version,
			Capabilities:    ServerCapabilities{Tools: &ToolCapabilities{}},
			ServerInfo:      info,
		}, nil
	})

	p.SetRequestHandler(MethodPing, func(ctx context.Context, params json.RawMessage) (any, error) {
		return struct{}{}, nil
	})

	p.SetRequestHandler(MethodToolsList, func(ctx context.Context, params json.RawMessage) (any, error) {
		ops := d.Tools()
		tools := make([]Tool, 0, len(ops))
		for _, op := range ops {
			tools = append(tools, Tool{
				Name:        op.Name,
				Description: op.Description,
				InputSchema: op.Args.Document(),
			})
		}
		return ListToolsResult{Tools: tools}, nil
	})

	p.SetRequestHandler(MethodToolsCall, func(ctx context.Context, params json.RawMessage) (any, error) {
		var in CallToolParams
		if err := decodeParams(params, &in); err != nil {
			return nil, err
		}
		if in.Name == "" {
			return nil, codec.NewError(codec.InvalidParams, "missing tool name")
		}
		res := d.Call(ctx, in.Name, in.Arguments)
		return CallToolResult{
			Content: []Content{TextContent(res.Text)},
			IsError: res.IsError,
		}, nil
	})

	p.SetNotificationHandler(NotificationInitialized, func(ctx context.Context, params json.RawMessage) error {
		log.Debug("initialized notification received")
		return nil
	})

	return p
}

func decodeParams(params json.RawMessage, v any) error {
	params = bytes.TrimSpace(params)
	if len(params) == 0 || bytes.Equal(params, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return codec.NewError(codec.InvalidParams, err.Error())
	}
	return nil
}
