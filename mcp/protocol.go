// Package mcp is a small JSON-RPC based MCP server: a method table plus the
// tool-serving handlers registered on it.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/BrewMyTech/grok-mcp/codec"
)

type RequestHandler func(ctx context.Context, params json.RawMessage) (any, error)
type NotificationHandler func(ctx context.Context, params json.RawMessage) error

type Protocol struct {
	mu sync.RWMutex

	reqHandlers          map[string]RequestHandler
	notificationHandlers map[string]NotificationHandler
}

func NewProtocol() *Protocol {
	return &Protocol{
		reqHandlers:          make(map[string]RequestHandler),
		notificationHandlers: make(map[string]NotificationHandler),
	}
}

func (p *Protocol) SetRequestHandler(method string, handler RequestHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reqHandlers[method] = handler
}

func (p *Protocol) SetNotificationHandler(method string, handler NotificationHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notificationHandlers[method] = handler
}

func (p *Protocol) HandleRequest(ctx context.Context, method string, params json.RawMessage) (any, error) {
	p.mu.RLock()
	handler, ok := p.reqHandlers[method]
	p.mu.RUnlock()
	if !ok {
		return nil, codec.NewError(codec.MethodNotFound, fmt.Sprintf("Method not found: %s", method))
	}
	return handler(ctx, params)
}

// HandleNotification ignores methods nobody registered for.
func (p *Protocol) HandleNotification(ctx context.Context, method string, params json.RawMessage) error {
	p.mu.RLock()
	handler, ok := p.notificationHandlers[method]
	p.mu.RUnlock()
	if !ok {
		return nil
	}
	return handler(ctx, params)
}

// Handle answers one decoded request. Notifications yield a nil response.
func (p *Protocol) Handle(ctx context.Context, req *codec.JSONRPCRequest) *codec.JSONRPCResponse {
	if req.IsNotification() {
		_ = p.HandleNotification(ctx, req.Method, req.Params)
		return nil
	}

	result, err := p.HandleRequest(ctx, req.Method, req.Params)
	if err != nil {
		return codec.NewErrorResponse(req.ID, toRPCError(err))
	}
	return codec.NewResponse(req.ID, result)
}

// HandleFrame decodes a raw frame and answers it. Undecodable frames get an
// error response with a null id.
func (p *Protocol) HandleFrame(ctx context.Context, frame []byte) *codec.JSONRPCResponse {
	req, err := codec.DecodeRequest(frame)
	if err != nil {
		return codec.NewErrorResponse(nil, toRPCError(err))
	}
	return p.Handle(ctx, req)
}

func toRPCError(err error) *codec.RPCError {
	var rpcErr *codec.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return codec.NewError(codec.InternalError, err.Error())
}
