package client

import (
	"context"
	"fmt"
	"slices"

	"github.com/BrewMyTech/grok-mcp/grok"
	"github.com/BrewMyTech/grok-mcp/mcp"
)

type ClientState struct {
	SupportedVersions []string
	Info              mcp.ClientInfo
	NegotiatedVersion string
	ServerInfo        *mcp.ServerInfo
	ServerCaps        *mcp.ServerCapabilities
	Initialized       bool
}

func NewClientState() ClientState {
	return ClientState{
		SupportedVersions: slices.Clone(mcp.SupportedProtocolVersions),
		Info:              mcp.NewClientInfo("grok-mcp-cli", grok.Version),
	}
}

// Initialize runs the handshake: it offers the newest supported version,
// checks the server's answer and sends the initialized notification.
func (c *RPCClient) Initialize(ctx context.Context) error {
	cs := &c.state
	if len(cs.SupportedVersions) == 0 {
		return fmt.Errorf("client must support at least one protocol version")
	}

	params := mcp.InitializeParams{
		ProtocolVersion: cs.SupportedVersions[0],
		Capabilities:    map[string]any{},
		ClientInfo:      cs.Info,
	}

	var result mcp.InitializeResult
	if err := c.Call(ctx, mcp.MethodInitialize, params, &result); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	if !slices.Contains(cs.SupportedVersions, result.ProtocolVersion) {
		cs.Initialized = false
		c.log.Error("server responded with unsupported version", "version", result.ProtocolVersion)
		return fmt.Errorf("unsupported protocol version '%s' from server", result.ProtocolVersion)
	}

	cs.NegotiatedVersion = result.ProtocolVersion
	cs.ServerInfo = &result.ServerInfo
	cs.ServerCaps = &result.Capabilities

	if err := c.Notify(ctx, mcp.NotificationInitialized); err != nil {
		return fmt.Errorf("initialized notification: %w", err)
	}
	cs.Initialized = true
	c.log.Debug("handshake successful", "version", cs.NegotiatedVersion, "server", cs.ServerInfo.Name)
	return nil
}
