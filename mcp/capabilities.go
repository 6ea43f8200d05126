package mcp

// LatestProtocolVersion is answered when the client asks for a version this
// server does not know.
const LatestProtocolVersion = "2025-06-18"

// SupportedProtocolVersions lists every version the server can speak,
// newest first.
var SupportedProtocolVersions = []string{
	"2025-06-18",
	"2025-03-26",
	"2024-11-05",
}

// NegotiateVersion echoes the requested version when supported and falls
// back to the latest one otherwise.
func NegotiateVersion(requested string) string {
	for _, v := range SupportedProtocolVersions {
		if v == requested {
			return v
		}
	}
	return LatestProtocolVersion
}

type ToolCapabilities struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// Use map for flexibility with experimental features
type ExperimentalCapabilities map[string]any

type ServerCapabilities struct {
	Tools        *ToolCapabilities        `json:"tools,omitempty"`
	Experimental ExperimentalCapabilities `json:"experimental,omitempty"`
}

type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func NewClientInfo(name, version string) ClientInfo {
	return ClientInfo{
		Name:    name,
		Version: version,
	}
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func NewServerInfo(name, version string) ServerInfo {
	return ServerInfo{
		Name:    name,
		Version: version,
	}
}

// Initialize Request/Response Payloads
type InitializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ClientInfo      ClientInfo     `json:"clientInfo"`
}

type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}
