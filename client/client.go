// Package client talks JSON-RPC to a running server's /rpc endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BrewMyTech/grok-mcp/codec"
	"github.com/BrewMyTech/grok-mcp/logger"
	"github.com/BrewMyTech/grok-mcp/mcp"

	"github.com/google/uuid"
)

// RPCClient is safe for concurrent use once Initialize has returned.
type RPCClient struct {
	log        *logger.Logger
	serverURL  string
	token      string
	httpClient *http.Client
	state      ClientState
}

func NewRPCClient(serverURL, token string) *RPCClient {
	return &RPCClient{
		log:       logger.NewLogger("RPCClient", uuid.NewString()),
		serverURL: serverURL,
		token:     token,
		httpClient: &http.Client{
			Timeout: time.Minute * 5,
		},
		state: NewClientState(),
	}
}

// WithHTTPClient replaces the underlying HTTP client. Mainly used for testing.
func (c *RPCClient) WithHTTPClient(hc *http.Client) *RPCClient {
	c.httpClient = hc
	return c
}

// State returns the handshake state.
func (c *RPCClient) State() ClientState { return c.state }

// Call sends one request and decodes its result into out. A JSON-RPC error
// in the reply is returned as *codec.RPCError.
func (c *RPCClient) Call(ctx context.Context, method string, params any, out any) error {
	req := codec.JSONRPCRequest{
		JSONRPC: codec.JsonRPCVersion,
		ID:      uuid.NewString(),
		Method:  method,
	}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to marshal %s params: %w", method, err)
		}
		req.Params = raw
	}

	data, err := c.post(ctx, req)
	if err != nil {
		return err
	}

	var resp struct {
		JSONRPC string          `json:"jsonrpc"`
		Result  json.RawMessage `json:"result"`
		Error   *codec.RPCError `json:"error"`
		ID      any             `json:"id"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if resp.ID != req.ID {
		return fmt.Errorf("response id %v does not match request id %v", resp.ID, req.ID)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
	}
	return nil
}

// Notify sends a notification; the server answers with no body.
func (c *RPCClient) Notify(ctx context.Context, method string) error {
	_, err := c.post(ctx, codec.JSONRPCRequest{JSONRPC: codec.JsonRPCVersion, Method: method})
	return err
}

func (c *RPCClient) post(ctx context.Context, frame codec.JSONRPCRequest) ([]byte, error) {
	body, err := json.Marshal(frame)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return data, nil
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("unauthorized: %s", bytes.TrimSpace(data))
	}
	return nil, fmt.Errorf("unexpected status: %s", resp.Status)
}

// ListTools fetches the server's tool list.
func (c *RPCClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	var res mcp.ListToolsResult
	if err := c.Call(ctx, mcp.MethodToolsList, nil, &res); err != nil {
		return nil, err
	}
	return res.Tools, nil
}

// CallTool invokes a tool. A tool-level failure is not a Go error; check
// IsError on the result.
func (c *RPCClient) CallTool(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error) {
	var res mcp.CallToolResult
	params := mcp.CallToolParams{Name: name, Arguments: args}
	if err := c.Call(ctx, mcp.MethodToolsCall, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
