package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BrewMyTech/grok-mcp/auth"
	"github.com/BrewMyTech/grok-mcp/config"
	"github.com/BrewMyTech/grok-mcp/dispatch"
	"github.com/BrewMyTech/grok-mcp/grok"
	"github.com/BrewMyTech/grok-mcp/logger"
	"github.com/BrewMyTech/grok-mcp/mcp"
	"github.com/BrewMyTech/grok-mcp/mcpsdk"
	"github.com/BrewMyTech/grok-mcp/server"
	"github.com/BrewMyTech/grok-mcp/stdio"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	runtimeSDK    = "sdk"
	runtimeNative = "native"

	transportStdio = "stdio"
	transportHTTP  = "http"
)

var (
	serveRuntime   string
	serveTransport string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "start the mcp server",
		Long: `Serve the Grok tools over MCP.

With --transport stdio (the default) frames are exchanged on stdin/stdout and
--runtime picks the protocol implementation. With --transport http both
runtimes are mounted: streamable HTTP on /mcp and plain JSON-RPC on /rpc.`,
		RunE: runServeCmd,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveRuntime, "runtime", runtimeSDK, "protocol runtime for stdio (sdk, native)")
	serveCmd.Flags().StringVar(&serveTransport, "transport", transportStdio, "transport (stdio, http)")
	serveCmd.Flags().String("addr", "localhost:9090", "listen address for --transport http")
	bind(serveCmd, config.KeyAddr, "addr")

	rootCmd.AddCommand(serveCmd)
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewLogger("Serve", uuid.NewString())
	if cfg.APIKey == "" {
		log.Warn("GROK_API_KEY is not set; every tool call will fail until it is")
	}

	d := dispatch.New(grok.NewClient(cfg.Grok()))
	info := mcp.NewServerInfo("grok-mcp", grok.Version)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch serveTransport {
	case transportStdio:
		err = serveStdio(ctx, d, info)
	case transportHTTP:
		err = serveHTTP(ctx, cfg, d, info)
	default:
		return fmt.Errorf("unknown transport %q", serveTransport)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func serveStdio(ctx context.Context, d *dispatch.Dispatcher, info mcp.ServerInfo) error {
	switch serveRuntime {
	case runtimeSDK:
		return mcpsdk.RunStdio(ctx, mcpsdk.NewServer(d, info.Version))
	case runtimeNative:
		return stdio.ServeStdio(ctx, mcp.NewToolServer(d, info))
	}
	return fmt.Errorf("unknown runtime %q", serveRuntime)
}

func serveHTTP(ctx context.Context, cfg *config.Config, d *dispatch.Dispatcher, info mcp.ServerInfo) error {
	routes := server.Routes{
		Native: mcp.NewToolServer(d, info),
		SDK:    mcpsdk.HTTPHandler(mcpsdk.NewServer(d, info.Version)),
	}
	if cfg.Secret != "" {
		routes.Tokens = auth.NewTWithSecret([]byte(cfg.Secret))
	}

	svr := server.NewServer(server.ServerConfigs(cfg.Addr), server.SetupRoutes(routes))
	return svr.Run(ctx)
}
