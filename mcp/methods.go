package mcp

const (
	// Initiates connection and negotiates protocol capabilities.
	// https://modelcontextprotocol.io/specification/2025-03-26/basic/lifecycle#initialization
	MethodInitialize string = "initialize"

	// Verifies connection liveness between client and server.
	// https://modelcontextprotocol.io/specification/2025-03-26/basic/utilities/ping
	MethodPing string = "ping"

	// Lists all available executable tools.
	// https://modelcontextprotocol.io/specification/2025-03-26/server/tools
	MethodToolsList string = "tools/list"

	// Invokes a specific tool with provided parameters.
	// https://modelcontextprotocol.io/specification/2025-03-26/server/tools
	MethodToolsCall string = "tools/call"
)

const (
	// Sent by the client once it has processed the initialize result.
	NotificationInitialized string = "notifications/initialized"

	// Sent by either side to abandon an in-flight request.
	NotificationCancelled string = "notifications/cancelled"
)
