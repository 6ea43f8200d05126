// Package mcpsdk serves the tool set through the official MCP Go SDK.
package mcpsdk

import (
	"context"
	"net/http"

	"github.com/BrewMyTech/grok-mcp/dispatch"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "grok-mcp"

// NewServer registers every dispatcher tool on a new SDK server.
func NewServer(d *dispatch.Dispatcher, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: version},
		nil,
	)

	for _, op := range d.Tools() {
		name := op.Name
		server.AddTool(
			&mcp.Tool{
				Name:        name,
				Description: op.Description,
				InputSchema: op.Args.Document(),
			},
			func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				var args []byte
				if req.Params != nil {
					args = req.Params.Arguments
				}
				res := d.Call(ctx, name, args)
				return &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: res.Text}},
					IsError: res.IsError,
				}, nil
			},
		)
	}
	return server
}

// RunStdio serves on stdin/stdout until the client disconnects or ctx ends.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler serves the streamable HTTP transport.
func HTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, nil)
}
