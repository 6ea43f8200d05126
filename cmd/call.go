package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BrewMyTech/grok-mcp/client"

	"github.com/spf13/cobra"
)

var (
	callURL   string
	callToken string
	callArgs  string
	callList  bool

	callCmd = &cobra.Command{
		Use:   "call [tool]",
		Short: "call a tool on a running http server",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCallCmd,
	}
)

func init() {
	callCmd.Flags().StringVar(&callURL, "url", "http://localhost:9090/rpc", "JSON-RPC endpoint")
	callCmd.Flags().StringVar(&callToken, "token", "", "bearer token (see the token command)")
	callCmd.Flags().StringVar(&callArgs, "args", "{}", "tool arguments as a JSON object")
	callCmd.Flags().BoolVar(&callList, "list", false, "list tools instead of calling one")

	rootCmd.AddCommand(callCmd)
}

func runCallCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := client.NewRPCClient(callURL, callToken)
	if err := c.Initialize(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if callList || len(args) == 0 {
		tools, err := c.ListTools(ctx)
		if err != nil {
			return err
		}
		for _, tool := range tools {
			fmt.Fprintf(out, "%s\t%s\n", tool.Name, tool.Description)
		}
		return nil
	}

	if !json.Valid([]byte(callArgs)) {
		return fmt.Errorf("--args is not valid JSON")
	}

	res, err := c.CallTool(ctx, args[0], json.RawMessage(callArgs))
	if err != nil {
		return err
	}
	for _, content := range res.Content {
		fmt.Fprintln(out, content.Text)
	}
	if res.IsError {
		return errors.New("tool call failed")
	}
	return nil
}
